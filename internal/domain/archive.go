package domain

import (
	"fmt"
	"time"
)

// ArchiveTimestampLayout formats the creation time in archive names.
const ArchiveTimestampLayout = "20060102T150405Z"

// PackageArchive describes the artifacts produced by a package run.
type PackageArchive struct {
	// Path is the .tgz holding the project tree.
	Path string
	// BundlePath is the image bundle inside the project tree.
	BundlePath string
	Images     []ImageReference
	CreatedAt  time.Time
}

// ArchiveBaseName returns "<prefix>-<project>-<timestamp>".
func ArchiveBaseName(prefix, project string, at time.Time) string {
	return fmt.Sprintf("%s-%s-%s", prefix, project, at.UTC().Format(ArchiveTimestampLayout))
}

// ArchiveFileName is ArchiveBaseName with the .tgz extension.
func ArchiveFileName(prefix, project string, at time.Time) string {
	return ArchiveBaseName(prefix, project, at) + ".tgz"
}

// BundleFileName names the image bundle saved alongside the tree.
func BundleFileName(prefix, project string, at time.Time) string {
	return ArchiveBaseName(prefix, project, at) + "-images.tar"
}

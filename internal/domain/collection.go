package domain

import (
	"fmt"
	"strings"
)

// CollectionID names a set of image templates grouped for a deployment purpose.
type CollectionID string

const (
	CollectionAll        CollectionID = "ALL"
	CollectionWebAppDemo CollectionID = "WEBAPPDEMO"
	CollectionREST       CollectionID = "REST"
	CollectionAPI        CollectionID = "API"
	CollectionSQLite     CollectionID = "SQLITE"
	CollectionPostgreSQL CollectionID = "POSTGRESQL"
	CollectionMySQL      CollectionID = "MYSQL"
	CollectionMSSQL      CollectionID = "MSSQL"
	CollectionDB2        CollectionID = "DB2"
	CollectionJupyter    CollectionID = "JUPYTER"
)

// DefaultCollection is used when no collection is requested.
const DefaultCollection = CollectionWebAppDemo

// KnownCollections is the fixed set accepted on the command line.
var KnownCollections = []CollectionID{
	CollectionAll,
	CollectionWebAppDemo,
	CollectionREST,
	CollectionAPI,
	CollectionSQLite,
	CollectionPostgreSQL,
	CollectionMySQL,
	CollectionMSSQL,
	CollectionDB2,
	CollectionJupyter,
}

// NormalizeCollectionID upper-cases and trims an identifier.
func NormalizeCollectionID(s string) CollectionID {
	return CollectionID(strings.ToUpper(strings.TrimSpace(s)))
}

// ParseCollectionID validates s against KnownCollections.
func ParseCollectionID(s string) (CollectionID, error) {
	id := NormalizeCollectionID(s)
	for _, known := range KnownCollections {
		if id == known {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: unknown collection %q", ErrInvalidArgument, s)
}

// ParseCollectionIDs parses a list of ids, dropping duplicates while keeping
// first-seen order.
func ParseCollectionIDs(values []string) ([]CollectionID, error) {
	seen := make(map[CollectionID]struct{}, len(values))
	ids := make([]CollectionID, 0, len(values))
	for _, v := range values {
		id, err := ParseCollectionID(v)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// ImageTemplate is an image name that may embed a version substitution token,
// e.g. "senzing/init-container:{{SENZING_DOCKER_IMAGE_VERSION_INIT_CONTAINER}}".
type ImageTemplate string

// Package docker implements the container runtime adapter using Docker API.
package docker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
)

// Runtime implements the ContainerRuntime interface using Docker API.
type Runtime struct {
	client *client.Client
	log    *log.Logger
}

// NewRuntime creates a Docker runtime. An empty host uses the environment
// (DOCKER_HOST and friends).
func NewRuntime(host string, logger *log.Logger) (*Runtime, error) {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if host != "" {
		opts = append(opts, client.WithHost(host))
	}
	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}
	return NewRuntimeWithClient(cli, logger), nil
}

// NewRuntimeWithClient creates a runtime with a custom client (for testing).
func NewRuntimeWithClient(cli *client.Client, logger *log.Logger) *Runtime {
	return &Runtime{client: cli, log: logger.WithPrefix("docker")}
}

// Close releases the client.
func (r *Runtime) Close() error {
	return r.client.Close()
}

// Ping checks if Docker is responsive.
func (r *Runtime) Ping(ctx context.Context) error {
	if _, err := r.client.Ping(ctx); err != nil {
		return fmt.Errorf("Docker ping failed: %w", err)
	}
	return nil
}

// ListImages lists the tags of local images.
func (r *Runtime) ListImages(ctx context.Context) ([]string, error) {
	images, err := r.client.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	var result []string
	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag != "<none>:<none>" {
				result = append(result, tag)
			}
		}
	}
	return result, nil
}

// PullImage pulls an image and waits for the pull to finish.
func (r *Runtime) PullImage(ctx context.Context, imageRef string) error {
	reader, err := r.client.ImagePull(ctx, imageRef, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image: %w", err)
	}
	defer reader.Close()

	// The pull only completes once the progress stream is drained.
	if err := drainJSONMessages(reader); err != nil {
		return fmt.Errorf("failed to pull image: %w", err)
	}
	r.log.Debug("image pulled", "image", imageRef)
	return nil
}

// SaveImages writes images into a single tar bundle at dest.
func (r *Runtime) SaveImages(ctx context.Context, images []string, dest string) error {
	reader, err := r.client.ImageSave(ctx, images)
	if err != nil {
		return fmt.Errorf("failed to export images: %w", err)
	}
	defer reader.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".bundle-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write image bundle: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

// LoadImages loads a tar bundle and returns the loaded image names.
func (r *Runtime) LoadImages(ctx context.Context, src string) ([]string, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	resp, err := r.client.ImageLoad(ctx, f, client.ImageLoadWithQuiet(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}
	defer resp.Body.Close()

	var loaded []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		var msg jsonMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}
		if msg.Error != nil {
			return loaded, fmt.Errorf("failed to load images: %s", msg.Error.Message)
		}
		for _, prefix := range []string{"Loaded image: ", "Loaded image ID: "} {
			if name, ok := strings.CutPrefix(strings.TrimSpace(msg.Stream), prefix); ok {
				loaded = append(loaded, name)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return loaded, fmt.Errorf("failed to read load response: %w", err)
	}
	return loaded, nil
}

// CreateNetwork creates a bridge network labelled as managed by senzup.
func (r *Runtime) CreateNetwork(ctx context.Context, name string) error {
	_, err := r.client.NetworkCreate(ctx, name, network.CreateOptions{
		Driver: "bridge",
		Labels: map[string]string{"senzup.managed": "true"},
	})
	if err != nil {
		return fmt.Errorf("failed to create network: %w", err)
	}
	r.log.Info("network created", "network", name)
	return nil
}

// NetworkExists checks if a Docker network exists.
func (r *Runtime) NetworkExists(ctx context.Context, name string) (bool, error) {
	_, err := r.client.NetworkInspect(ctx, name, network.InspectOptions{})
	if err != nil {
		if cerrdefs.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to inspect network: %w", err)
	}
	return true, nil
}

type jsonMessage struct {
	Stream string `json:"stream"`
	Status string `json:"status"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"errorDetail"`
}

// drainJSONMessages reads a progress stream to the end and reports the
// first error message it carries.
func drainJSONMessages(r io.Reader) error {
	dec := json.NewDecoder(r)
	for {
		var msg jsonMessage
		if err := dec.Decode(&msg); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if msg.Error != nil {
			return fmt.Errorf("%s", msg.Error.Message)
		}
	}
}

package docker

import (
	"bytes"
	"context"
	"fmt"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"

	"github.com/bnema/senzup/internal/domain"
)

// maxOutput bounds the container output kept on a RunResult.
const maxOutput = 8 << 10

// RunContainer creates and starts a container. Detached containers return
// right after start; others are waited for, their output collected and,
// with spec.Remove, removed.
func (r *Runtime) RunContainer(ctx context.Context, spec domain.RunSpec) (*domain.RunResult, error) {
	exposed, bindings, err := nat.ParsePortSpecs(spec.Ports)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid port binding: %v", domain.ErrInvalidArgument, err)
	}

	mounts := make([]mount.Mount, 0, len(spec.Mounts))
	for _, m := range spec.Mounts {
		mounts = append(mounts, mount.Mount{
			Type:     mount.TypeBind,
			Source:   m.Source,
			Target:   m.Target,
			ReadOnly: m.ReadOnly,
		})
	}

	cfg := &container.Config{
		Image:        string(spec.Image),
		Cmd:          spec.Cmd,
		Env:          spec.Env,
		User:         spec.User,
		ExposedPorts: exposed,
		Labels:       map[string]string{"senzup.managed": "true"},
	}
	hostCfg := &container.HostConfig{
		Mounts:       mounts,
		PortBindings: bindings,
	}
	var netCfg *network.NetworkingConfig
	if spec.Network != "" {
		hostCfg.NetworkMode = container.NetworkMode(spec.Network)
		netCfg = &network.NetworkingConfig{
			EndpointsConfig: map[string]*network.EndpointSettings{spec.Network: {}},
		}
	}

	if spec.Name != "" {
		r.removeStale(ctx, spec.Name)
	}

	created, err := r.client.ContainerCreate(ctx, cfg, hostCfg, netCfg, nil, spec.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}
	result := &domain.RunResult{ContainerID: created.ID}

	if err := r.client.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		r.remove(ctx, created.ID)
		return nil, fmt.Errorf("failed to start container: %w", err)
	}
	r.log.Debug("container started", "id", shortID(created.ID), "image", spec.Image)

	if spec.Detach {
		return result, nil
	}
	if spec.Remove {
		defer r.remove(ctx, created.ID)
	}

	statusCh, errCh := r.client.ContainerWait(ctx, created.ID, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		if err != nil {
			return nil, fmt.Errorf("failed waiting for container: %w", err)
		}
	case status := <-statusCh:
		result.ExitCode = int(status.StatusCode)
	}

	result.Output = r.collectOutput(ctx, created.ID)
	return result, nil
}

func (r *Runtime) collectOutput(ctx context.Context, id string) string {
	logs, err := r.client.ContainerLogs(ctx, id, container.LogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		r.log.Debug("no container output", "id", shortID(id), "err", err)
		return ""
	}
	defer logs.Close()

	var buf bytes.Buffer
	if _, err := stdcopy.StdCopy(&buf, &buf, logs); err != nil {
		r.log.Debug("could not demultiplex container output", "id", shortID(id), "err", err)
	}
	out := buf.Bytes()
	if len(out) > maxOutput {
		out = out[len(out)-maxOutput:]
	}
	return string(out)
}

// removeStale removes a leftover container holding name.
func (r *Runtime) removeStale(ctx context.Context, name string) {
	err := r.client.ContainerRemove(ctx, name, container.RemoveOptions{Force: true})
	if err != nil && !cerrdefs.IsNotFound(err) {
		r.log.Debug("could not remove stale container", "name", name, "err", err)
	}
}

func (r *Runtime) remove(ctx context.Context, id string) {
	if err := r.client.ContainerRemove(ctx, id, container.RemoveOptions{Force: true}); err != nil && !cerrdefs.IsNotFound(err) {
		r.log.Warn("failed to remove container", "id", shortID(id), "err", err)
	}
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

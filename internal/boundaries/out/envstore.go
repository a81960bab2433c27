package out

// EnvStore reads and writes KEY=VALUE environment files.
type EnvStore interface {
	Read(path string) (map[string]string, error)
	Write(path string, env map[string]string) error
}

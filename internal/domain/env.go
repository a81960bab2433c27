package domain

// Keys of the persisted environment file.
const (
	EnvProjectDir      = "SENZING_PROJECT_DIR"
	EnvProjectName     = "SENZING_PROJECT_NAME"
	EnvHostIPAddr      = "SENZING_DOCKER_HOST_IP_ADDR"
	EnvNetwork         = "SENZING_DOCKER_NETWORK"
	EnvCollections     = "SENZING_COLLECTIONS"
	EnvOrchestratorVer = "SENZUP_VERSION"
)

// UnknownAddress replaces a host IP that could not be detected.
const UnknownAddress = "<UNKNOWN>"

// AcceptEULAValue is the value of SENZING_ACCEPT_EULA that accepts the EULA
// without prompting.
const AcceptEULAValue = "I_ACCEPT_THE_SENZING_EULA"

package config

// EnvPrefix is the shared prefix for all environment variables.
const EnvPrefix = "feria"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

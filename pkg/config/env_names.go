package config

const (
	EnvPrefix = "BELANJA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "BELANJA_DB_DSN"
	EnvDBHost = "BELANJA_DB_HOST"
	EnvDBUser = "BELANJA_DB_USER"
	EnvDBName = "BELANJA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

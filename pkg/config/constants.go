package config

const EnvPrefix = "TIENDITA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "TIENDITA_DB_DSN"
	EnvDBHost = "TIENDITA_DB_HOST"
	EnvDBUser = "TIENDITA_DB_USER"
	EnvDBName = "TIENDITA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

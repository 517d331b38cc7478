package config

// EnvPrefix is the envconfig prefix shared by every BidZone binary.
const EnvPrefix = "BIDZONE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "BIDZONE_DB_DSN"
	EnvDBHost = "BIDZONE_DB_HOST"
	EnvDBUser = "BIDZONE_DB_USER"
	EnvDBName = "BIDZONE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

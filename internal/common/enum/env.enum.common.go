package enum

type EnvEnum string

const (
	LOCAL       EnvEnum = "local"
	DEVELOPMENT EnvEnum = "development"
	PRODUCTION  EnvEnum = "production"
	STAGING     EnvEnum = "staging"
)

func (e EnvEnum) ToString() string {
	return string(e)
}

func (e EnvEnum) IsValid() bool {
	switch e {
	case LOCAL, DEVELOPMENT, PRODUCTION, STAGING:
		return true
	}
	return false
}

// RunsWorkers reports whether background consumers start with the API.
// Local runs skip them so the service works without a broker.
func (e EnvEnum) RunsWorkers() bool {
	return e != LOCAL
}

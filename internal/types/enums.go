package types

type RegistryBackend string

const (
	RegistryBackendGitHub RegistryBackend = "github"
	RegistryBackendFile   RegistryBackend = "file"
)

type ReportFormat string

const (
	ReportFormatText  ReportFormat = "text"
	ReportFormatJSON  ReportFormat = "json"
	ReportFormatYAML  ReportFormat = "yaml"
	ReportFormatTable ReportFormat = "table"
)

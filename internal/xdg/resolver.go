package xdg

// PathResolver resolves the host paths clientup reads and writes.
type PathResolver interface {
	GlobalConfigFile() string
	DataDir() string
	LogFile() string
}

// DefaultResolver returns a PathResolver backed by the process environment.
func DefaultResolver() PathResolver {
	return envResolver{}
}

type envResolver struct{}

func (envResolver) GlobalConfigFile() string { return GlobalConfigFile() }
func (envResolver) DataDir() string          { return DataDir() }
func (envResolver) LogFile() string          { return LogFile() }

// Paths is a PathResolver with fixed answers.
type Paths struct {
	ConfigFile string
	Data       string
	Log        string
}

func (p Paths) GlobalConfigFile() string { return p.ConfigFile }
func (p Paths) DataDir() string          { return p.Data }
func (p Paths) LogFile() string          { return p.Log }

package container

import (
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

type Options struct {
	Port        int    `default:"3000"      help:"Port to listen on; the PORT env var takes precedence" short:"p"`
	LogFormat   string `default:"console"   help:"Log format: console or json"`
	DNSTimeout  int    `default:"5000"      help:"Host lookup timeout in milliseconds"`
	PublicDir   string `default:"public"    help:"Directory served under /public"`
	ViewsDir    string `default:"views"     help:"Directory containing index.html"`
	RedisAddr   string `default:""          help:"Redis address for analytics streams; empty keeps events in-process" short:"r"`
	EventsGroup string `default:"analytics" help:"Redis consumer group for analytics events"`
}

// ApplyEnv applies the environment variables the service honors besides
// the humacli SERVICE_* ones.
func (o *Options) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("PORT"); ok {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			o.Port = port
		}
	}
}

// ApplyOSEnv is ApplyEnv over the process environment.
func (o *Options) ApplyOSEnv() {
	o.ApplyEnv(os.LookupEnv)
}

// LookupTimeout returns DNSTimeout as a duration.
func (o *Options) LookupTimeout() time.Duration {
	return time.Duration(o.DNSTimeout) * time.Millisecond
}

// InProcessEvents reports whether analytics events stay inside the server.
func (o *Options) InProcessEvents() bool {
	return o.RedisAddr == ""
}

// NewLogger builds a production logger for the json format and a
// development logger otherwise.
func NewLogger(format string) (*zap.Logger, error) {
	if format == "json" {
		return zap.NewProduction()
	}

	return zap.NewDevelopment()
}

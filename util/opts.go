package util

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cooldogedev/photon/code"
	"gopkg.in/yaml.v3"
)

type Opts struct {
	// Addr is the address the HTTP surface of the relay listens on. Clients connect to /ws on it and
	// metrics are served on /metrics.
	Addr string `yaml:"addr"`
	// Server is the address of the Photon server every session is relayed to.
	Server string `yaml:"server"`
	// FallbackServer is the server a session is moved to when its server goes away. It may be empty.
	FallbackServer string `yaml:"fallback_server"`
	// Transport is the transport used to reach servers, see transport.Kinds.
	Transport string `yaml:"transport"`
	// Subprotocols are the websocket subprotocols offered to clients and servers.
	Subprotocols []string `yaml:"subprotocols"`
	// DialTimeout bounds a single server dial in milliseconds. Zero means no timeout.
	DialTimeout int64 `yaml:"dial_timeout"`
	// LatencyInterval is the interval at which the latency of the connection is updated in milliseconds.
	// The lower the interval, the more accurate the latency will be, but the more bandwidth it will use.
	// Zero disables the relay's own pings.
	LatencyInterval int64 `yaml:"latency_interval"`
	// MaxDepth limits how deeply values in a packet may nest before decoding gives up on them.
	MaxDepth int `yaml:"max_depth"`
	// MaxValues limits how many values a single packet may decode into.
	MaxValues int `yaml:"max_values"`
	// LogLevel is one of debug, info, warn and error.
	LogLevel string `yaml:"log_level"`

	API     APIOpts     `yaml:"api"`
	Filter  FilterOpts  `yaml:"filter"`
	Capture CaptureOpts `yaml:"capture"`
}

type APIOpts struct {
	// Addr is the address the admin API listens on. The API is disabled when it is empty.
	Addr string `yaml:"addr"`
	// Token is the secret admin clients have to authenticate with.
	Token string `yaml:"token"`
}

type FilterOpts struct {
	// Operations and Events hold names or numbers of codes whose packets are dropped.
	Operations []string `yaml:"operations"`
	Events     []string `yaml:"events"`
}

type CaptureOpts struct {
	// Dir is the directory a capture file is written to for every session. Capturing is disabled when
	// it is empty.
	Dir string `yaml:"dir"`
	// Bucket is the S3 bucket finished captures are uploaded to. Uploading is disabled when it is empty.
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
}

func DefaultOpts() *Opts {
	return &Opts{
		Addr:            ":8080",
		Transport:       "websocket",
		DialTimeout:     10_000,
		LatencyInterval: 3000,
		MaxDepth:        64,
		MaxValues:       1 << 17,
		LogLevel:        "info",
	}
}

// LoadOpts reads the YAML file at path over the defaults. Unknown keys are rejected.
func LoadOpts(path string) (*Opts, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadOpts(f)
}

// ReadOpts reads YAML options from r over the defaults.
func ReadOpts(r io.Reader) (*Opts, error) {
	opts := DefaultOpts()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(opts); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode options: %w", err)
	}
	return opts, opts.Validate()
}

// Validate ...
func (o *Opts) Validate() error {
	if o.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be positive, got %d", o.MaxDepth)
	}
	if o.MaxValues <= 0 {
		return fmt.Errorf("max_values must be positive, got %d", o.MaxValues)
	}
	if o.DialTimeout < 0 || o.LatencyInterval < 0 {
		return errors.New("dial_timeout and latency_interval must not be negative")
	}
	if _, err := o.Level(); err != nil {
		return err
	}
	_, _, err := o.Filters()
	return err
}

// Level parses LogLevel.
func (o *Opts) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(o.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", o.LogLevel)
	}
	return level, nil
}

// Filters parses the filtered operation and event codes.
func (o *Opts) Filters() ([]code.OperationCode, []code.EventCode, error) {
	operations := make([]code.OperationCode, 0, len(o.Filter.Operations))
	for _, name := range o.Filter.Operations {
		op, err := code.ParseOperationCode(name)
		if err != nil {
			return nil, nil, err
		}
		operations = append(operations, op)
	}

	events := make([]code.EventCode, 0, len(o.Filter.Events))
	for _, name := range o.Filter.Events {
		event, err := code.ParseEventCode(name)
		if err != nil {
			return nil, nil, err
		}
		events = append(events, event)
	}
	return operations, events, nil
}

// Marshal returns the options as YAML.
func (o *Opts) Marshal() ([]byte, error) {
	return yaml.Marshal(o)
}

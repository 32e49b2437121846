package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/yulrizka/numbergame/qna"
	"github.com/yulrizka/numbergame/repo"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	CORSOrigins []string

	// questions
	TicketTTL        time.Duration
	NumberMin        int
	NumberMax        int
	RandomSeed       int64
	LabelPreamble    string
	LabelPrompt      string
	ConsumeOnCorrect bool

	// stats
	StatsDriver string
	StatsDSN    string
	RedisPrefix string

	LogFormat      string // text|json
	GraphiteAddr   string
	GraphiteWebURL string
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	defOrigins := "http://localhost:3000"
	if mode == ModeOnline {
		defOrigins = ""
	}
	return Config{
		Mode:        mode,
		HTTPAddr:    envOr("HTTP_ADDR", ":8080"),
		CORSOrigins: csvOr("CORS_ORIGINS", defOrigins),

		TicketTTL:        envDuration("TICKET_TTL", 5*time.Minute),
		NumberMin:        envInt("NUMBER_MIN", 1),
		NumberMax:        envInt("NUMBER_MAX", 100),
		RandomSeed:       int64(envInt("RANDOM_SEED", 0)),
		LabelPreamble:    envOr("LABEL_PREAMBLE", qna.DefaultLabels.Preamble),
		LabelPrompt:      envOr("LABEL_PROMPT", qna.DefaultLabels.Prompt),
		ConsumeOnCorrect: envBool("CONSUME_ON_CORRECT", true),

		StatsDriver: envOr("STATS_DRIVER", repo.DriverMemory),
		StatsDSN:    os.Getenv("STATS_DSN"),
		RedisPrefix: envOr("REDIS_PREFIX", repo.DefaultRedisPrefix),

		LogFormat:      envOr("LOG_FORMAT", "text"),
		GraphiteAddr:   os.Getenv("GRAPHITE_ADDR"),
		GraphiteWebURL: os.Getenv("GRAPHITE_WEB_URL"),
	}
}

// Labels of the question sentence
func (c Config) Labels() qna.Labels {
	return qna.Labels{Preamble: c.LabelPreamble, Prompt: c.LabelPrompt}
}

// Validate reports the first invalid setting
func (c Config) Validate() error {
	if c.NumberMin < 0 {
		return errors.Errorf("NUMBER_MIN must not be negative, got %d", c.NumberMin)
	}
	if c.NumberMax < c.NumberMin {
		return errors.Errorf("NUMBER_MAX %d is lower than NUMBER_MIN %d", c.NumberMax, c.NumberMin)
	}
	if c.NumberMax > qna.MaxNumber {
		return errors.Errorf("NUMBER_MAX must not exceed %d, got %d", qna.MaxNumber, c.NumberMax)
	}
	if c.TicketTTL <= 0 {
		return errors.Errorf("TICKET_TTL must be positive, got %s", c.TicketTTL)
	}
	if strings.ContainsAny(c.LabelPreamble+c.LabelPrompt, "0123456789") {
		return errors.New("question labels must not contain digits")
	}
	for _, d := range repo.Drivers {
		if c.StatsDriver == d {
			return nil
		}
	}
	return errors.Errorf("unknown STATS_DRIVER %q", c.StatsDriver)
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int) int {
	v, err := strconv.Atoi(os.Getenv(k))
	if err != nil {
		return def
	}
	return v
}
func envDuration(k string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(k))
	if err != nil {
		return def
	}
	return v
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

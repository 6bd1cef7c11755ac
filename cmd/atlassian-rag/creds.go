/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"path"

	"github.com/spf13/viper"
	"github.com/toothbrush/atlassian-rag/confluence"
	"github.com/toothbrush/atlassian-rag/internal/cache"
	"github.com/toothbrush/atlassian-rag/jira"
	"golang.org/x/time/rate"
	"gopkg.in/dnaeon/go-vcr.v3/cassette"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"
)

// credentials only ever come from the process environment or a dotenv file.
// They never live in the YAML config, so tokens don't end up in dotfiles
// that get committed somewhere.
type credentials struct {
	ConfluenceURL      string
	ConfluenceUsername string
	ConfluenceToken    string

	JiraURL      string
	JiraUsername string
	JiraToken    string

	RedisURL string
}

// loadCredentials reads the dotenv file (when there is one) and the process
// environment.  A real environment variable beats the dotenv file.
func loadCredentials() (credentials, error) {
	v := viper.New()
	v.SetConfigFile(EnvFile)
	v.SetConfigType("dotenv")

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return credentials{}, fmt.Errorf("cmd: couldn't read env file %s: %w", EnvFile, err)
		}
		debugLog("no env file at %s, relying on the environment\n", EnvFile)
	}
	v.AutomaticEnv()

	return credentials{
		ConfluenceURL:      v.GetString("CONFLUENCE_URL"),
		ConfluenceUsername: v.GetString("CONFLUENCE_USERNAME"),
		ConfluenceToken:    v.GetString("CONFLUENCE_API_TOKEN"),
		JiraURL:            v.GetString("JIRA_URL"),
		JiraUsername:       v.GetString("JIRA_USERNAME"),
		JiraToken:          v.GetString("JIRA_API_TOKEN"),
		RedisURL:           v.GetString("REDIS_URL"),
	}, nil
}

// clients bundles an API handle with whatever needs shutting down when the
// command is finished: the VCR recorder (it flushes its cassette on Stop)
// and the Redis connection.
type clients struct {
	confluence *confluence.API
	jira       *jira.API

	rec   *recorder.Recorder
	redis *cache.Redis
}

func (c *clients) Close() {
	if c.rec != nil {
		if err := c.rec.Stop(); err != nil {
			log.Printf("WARN: couldn't stop VCR recorder: %v", err)
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Printf("WARN: couldn't close Redis connection: %v", err)
		}
	}
}

func confluenceClient(creds credentials) (*clients, error) {
	api, err := confluence.NewAPI(creds.ConfluenceURL, creds.ConfluenceUsername, creds.ConfluenceToken)
	if err != nil {
		return nil, err
	}
	api.Limiter = rate.NewLimiter(rate.Limit(RateLimit), RateBurst)

	c := &clients{confluence: api}
	if c.redis = openCache(creds); c.redis != nil {
		api.Cache = c.redis
	}
	if WithVCR {
		r, err := startVCR("confluence")
		if err != nil {
			c.Close()
			return nil, err
		}
		c.rec = r
		api.Client = r.GetDefaultClient()
	}
	return c, nil
}

func jiraClient(creds credentials) (*clients, error) {
	api, err := jira.NewAPI(creds.JiraURL, creds.JiraUsername, creds.JiraToken)
	if err != nil {
		return nil, err
	}
	api.Limiter = rate.NewLimiter(rate.Limit(RateLimit), RateBurst)

	c := &clients{jira: api}
	if c.redis = openCache(creds); c.redis != nil {
		api.Cache = c.redis
	}
	if WithVCR {
		r, err := startVCR("jira")
		if err != nil {
			c.Close()
			return nil, err
		}
		c.rec = r
		api.Client = r.GetDefaultClient()
	}
	return c, nil
}

// openCache connects to Redis when REDIS_URL is set.  The cache is an
// accelerator, not a dependency: when the connection can't be set up we log
// it and carry on uncached.
func openCache(creds credentials) *cache.Redis {
	if creds.RedisURL == "" {
		return nil
	}
	redis, err := cache.New(creds.RedisURL)
	if err != nil {
		log.Printf("WARN: Redis cache unavailable, continuing without: %v", err)
		return nil
	}
	return redis
}

func startVCR(name string) (*recorder.Recorder, error) {
	// set up VCR recordings.
	opts := &recorder.Options{
		CassetteName:       path.Join("fixtures", name),
		Mode:               recorder.ModeReplayWithNewEpisodes,
		SkipRequestLatency: true,
		RealTransport:      http.DefaultTransport,
	}
	r, err := recorder.NewWithOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("cmd: couldn't set up go-vcr recording: %w", err)
	}

	// Add a hook which removes Authorization headers from all requests
	hook := func(i *cassette.Interaction) error {
		delete(i.Request.Headers, "Authorization")
		return nil
	}
	r.AddHook(hook, recorder.AfterCaptureHook)
	r.SetReplayableInteractions(true)

	return r, nil
}

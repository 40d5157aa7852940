// Package config loads the narvi command configuration.
//
// The configuration is stored in narvi.yaml in the working directory. Every
// key can be overridden with an environment variable prefixed NARVI_.
//
// # Configuration File Structure
//
//	log:
//	  level: debug      # debug, info, warn, error
//	  format: json      # text or json
//	metrics:
//	  enabled: true
//	  addr: ":9464"
//	  namespace: narvi
//	tracing:
//	  enabled: false
//	  tracer: narvi
//
// # Environment Overrides
//
//	NARVI_LOG_LEVEL=debug
//	NARVI_METRICS_ENABLED=true
//	NARVI_METRICS_ADDR=127.0.0.1:9000
//	NARVI_TRACING_ENABLED=true
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    return err
//	}
//	logger := cfg.Logger(os.Stderr)
package config

// Package config provides configuration parsing for lazydom tools.
//
// The configuration is stored in lazydom.json. This package handles
// loading, saving, and validating it.
//
// # Configuration File Structure
//
//	{
//	  "log": {"level": "debug", "format": "json"},
//	  "preview": {
//	    "host": "localhost",
//	    "port": 7070,
//	    "frameInterval": "100ms",
//	    "writeTimeout": "10s"
//	  },
//	  "metrics": {"enabled": true, "namespace": "lazydom"},
//	  "tracing": {"enabled": false, "tracerName": "lazydom"},
//	  "snapshot": {
//	    "dir": "snapshots",
//	    "bucket": "my-bucket",
//	    "prefix": "previews/",
//	    "region": "us-east-1"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Preview:", cfg.Addr())
package config

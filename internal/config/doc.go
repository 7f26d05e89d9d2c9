// Package config loads hive.yaml, the file describing a hive server and
// its declarative store.
//
// The file is YAML; JSON is accepted as well since it is a YAML subset.
// Unknown fields are rejected so typos surface at load time.
//
// # Configuration File Structure
//
//	name: shop
//	server:
//	  addr: ":8080"
//	  read_timeout: 60s
//	  write_timeout: 10s
//	  heartbeat_interval: 30s
//	  max_message_size: 65536
//	  send_queue: 256
//	log:
//	  level: info      # debug, info, warn, error
//	  format: text     # text or json
//	metrics:
//	  namespace: hive
//	tracing:
//	  tracer: hive
//	store:
//	  state:
//	    count: 0
//	  modules:
//	    cart:
//	      state:
//	        items: []
//
// Every declarative module gets the built-in handlers: the "assign", "set"
// and "reset" setters and the "snapshot" getter.
package config

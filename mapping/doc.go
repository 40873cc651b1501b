// Package mapping builds the validated in-memory representation of a graph
// mapping from its YAML definition.
//
// A mapping file declares vertex tags, edges, named transforms and global
// settings:
//
//	settings:
//	  string_length: 256
//	  array_delimiter: ","
//	tags:
//	  person:
//	    from: /people
//	    key: id
//	    properties:
//	      - json: name
//	        type: STRING
//	      - json: joined
//	        type: TIMESTAMP
//	        transform:
//	          name: time_format
//	          params: {format: "2006-01-02"}
//	edges:
//	  follows:
//	    from: /follows
//	    source_tag: person
//	    target_tag: person
//
// Tags and edges keep their declaration order. Structural validation
// (identifiers, paths, duplicate properties) happens at build time;
// resolving declared type names against the Nebula type set is deferred to
// schema and statement generation.
package mapping

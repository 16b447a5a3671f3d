// Package requestfile loads queryir.Request values from files.
//
// Supported formats, chosen by extension:
//
//	.yaml .yml   YAML, strict (unknown fields are rejected)
//	.json        JSON, read by the YAML decoder
//	.cue         CUE, unified with the embedded #File schema
//
// A file holds either one request at the top level:
//
//	measurements: [cpu]
//	fields: ["max(value) - 20"]
//	conditions:
//	  - - {field: host, value: node-1, comparator: "="}
//	    - {field: usage, value: 20, comparator: ">"}
//	  - - {field: region, raw: "'us-west'", comparator: "="}
//	from: now() - 2d
//	group_by: [time(1h), fill(null), host]
//
// or a batch under `statements:`. Condition values keep their scalar type:
// 20 is an integer, 2.5 a float, true a bool, null is absent and anything
// else a string. `raw:` is emitted verbatim by the compiler.
package requestfile

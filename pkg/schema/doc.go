// Package schema provides structured validation errors for configuration data.
//
// A ValidationError names the offending key, the reason and the rejected value.
// AggregateError collects every failure of one validation pass so callers can
// report them together instead of stopping at the first:
//
//	err := cfg.Validate()
//	for _, e := range schema.ValidationErrors(err) {
//	    fmt.Println(e)
//	}
//
// Prefix nests keys when a value is validated as part of a larger document,
// turning "k_base" into "modes.normal.k_base".
package schema

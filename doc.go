// Package ldexpand implements JSON-LD 1.1 context processing and expansion.
//
// You can turn incoming JSON into fully expanded JSON-LD using
// [Processor.Expand]. This will transform the document into a list of [Node].
// Each node has dedicated fields for each JSON-LD keyword, and the catch-all
// [Node.Properties] for everything else. If you serialise this document to JSON
// you'll get JSON-LD Expanded Document form.
//
// A context can also be processed on its own with [Processor.Context] or
// [ProcessContext]. The resulting [Context] is immutable and can be inspected
// with its accessor methods, or passed to [WithProcessedContext] to skip
// processing a well-known remote context for every document.
//
// By default a [Processor] cannot load remote contexts. You can install a
// [Loader] using [WithRemoteContextLoader] when creating the processor. The
// loader package provides a static loader for contexts built into your
// application, and an HTTP loader with caching. In order to not depend on the
// network when processing documents, it's strongly recommended to ship the
// contexts you need with your application.
//
// # Errors
//
// Every processing error matches one of the exported Err* values with
// [errors.Is]. Use [Code] to retrieve the JSON-LD error code of an error.
//
// # JSON typing
//
// In order to provide a type-safe implementation, JSON scalars (numbers,
// strings, booleans) are not decoded and stored as [json.RawMessage] instead.
// You can use the optionally specified type to decide how to decode the value.
// When the type is unspecified, the following rules can be used:
//   - Numbers with a zero fraction and smaller than 10^21 are int64.
//   - Numbers with a decimal point or a value greater than 10^21 are float64.
//   - Booleans are booleans.
//   - Anything else is a string.
//
// # Constraints
//
// For JSON-LD, there are a few extra constraints on top of JSON:
//   - Do not use keys that look like a JSON-LD keyword: @+alpha characters.
//   - Do not use the empty string for a key.
//   - Keys must be unique.
package ldexpand

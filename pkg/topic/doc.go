// Package topic defines the three-level topic hierarchy that mind maps are
// built from, and the lenient decoders that produce it.
//
// A [Tree] has one subject, any number of main topics and, under each main
// topic, any number of subtopics:
//
//	{
//	  "subject": "Biology",
//	  "mainTopics": [
//	    {"title": "Cells", "subtopics": [{"title": "Mitochondria"}]}
//	  ]
//	}
//
// # Boundary Coercion
//
// Trees usually come from a language model, so the decoders never reject a
// structurally valid document. Titles that are not strings become "", missing
// or malformed arrays become empty, a bare string inside a subtopic list is
// taken as that subtopic's title, and a non-object main topic becomes an empty
// main topic so that positional indices stay stable. Only syntactically
// invalid JSON or YAML is reported as an error.
//
// # Model Responses
//
// [ParseResponse] recovers trees from free-form model output: it strips a
// markdown code fence when present, otherwise starts at the first brace or
// bracket, and accepts either a single tree or an array of trees.
// [ExtractJSONArray] does the same for array-shaped replies such as course
// recommendations.
//
// # Files
//
// [ReadFile] and [WriteFile] pick JSON or YAML by file extension.
package topic

// Package rules defines the built-in frame-safety rule catalog (FS01 to
// FS07). Rules are stateless pattern matchers over the normalized node
// model; every fact they need comes from the dataflow tracker view they
// receive, so no rule's output depends on another's and catalog order
// never matters.
//
// Build the catalog with All and hand it to a lint.Engine:
//
//	engine := lint.NewEngine(rules.All(), lint.NewConfig(), nil)
package rules

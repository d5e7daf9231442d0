// Package dag orders the evaluation of named entities that reference each
// other by name. It offers two tools: a Graph used at load time to reject
// reference cycles before anything runs, and Evaluate, the fixed-point pass
// used on every randomization to calculate each entity after the entities it
// references.
package dag

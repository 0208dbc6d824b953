package scenetree

// Option configures a Tree during creation.
//
// Example:
//
//	tree := scenetree.New(passes, scenetree.WithRootTag("window"))
type Option func(*treeOptions)

// treeOptions holds optional configuration for Tree creation.
type treeOptions struct {
	rootTag       string
	rootNamespace string
}

func defaultTreeOptions() treeOptions {
	return treeOptions{
		rootTag:       "root",
		rootNamespace: "root",
	}
}

// WithRootTag sets the tag of the root element.
func WithRootTag(tag string) Option {
	return func(o *treeOptions) {
		o.rootTag = tag
	}
}

// WithRootNamespace sets the namespace of the root element.
func WithRootNamespace(ns string) Option {
	return func(o *treeOptions) {
		o.rootNamespace = ns
	}
}

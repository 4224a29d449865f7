package manifest

import (
	"bytes"
	"io"

	"github.com/xeipuuv/gojsonschema"
	yamlv3 "gopkg.in/yaml.v3"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"
)

// SplitDocuments splits a YAML stream into its documents.
// Empty documents are skipped. A syntax error anywhere fails the
// whole stream: callers treat that as "file errored, no result".
func SplitDocuments(content []byte) ([][]byte, error) {
	var docs [][]byte

	decoder := yamlv3.NewDecoder(bytes.NewReader(content))
	for {
		var node yamlv3.Node
		err := decoder.Decode(&node)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if node.Kind == 0 {
			continue
		}

		doc, err := yamlv3.Marshal(&node)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// FilterValid keeps the documents that validate against the schema.
// Invalid documents are dropped, not raised: one bad document must not
// block extraction from its siblings.
func FilterValid(docs [][]byte, schema gojsonschema.JSONLoader) [][]byte {
	var valid [][]byte

	for _, doc := range docs {
		jsonDoc, err := yaml.YAMLToJSON(doc)
		if err != nil {
			continue
		}

		result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(jsonDoc))
		if err != nil || !result.Valid() {
			continue
		}

		valid = append(valid, doc)
	}

	return valid
}

// TypeMeta probes a document's apiVersion and kind for dispatching.
// Unparseable documents yield an empty TypeMeta.
func TypeMeta(doc []byte) metav1.TypeMeta {
	var tm metav1.TypeMeta
	yaml.Unmarshal(doc, &tm)
	return tm
}

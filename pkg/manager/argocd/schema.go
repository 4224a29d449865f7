package argocd

import (
	"github.com/xeipuuv/gojsonschema"
)

// applicationSchema validates one YAML document as an ArgoCD manifest we
// can extract from. Documents failing it are filtered out, so a broken
// document never blocks its siblings in the same file.
const applicationSchema = `
{
  "definitions": {
    "source": {
      "type": "object",
      "required": ["repoURL"],
      "properties": {
        "repoURL": {"type": "string"},
        "targetRevision": {"type": "string"},
        "chart": {"type": "string"},
        "kustomize": {
          "type": "object",
          "properties": {
            "images": {
              "type": "array",
              "items": {"type": "string"}
            }
          }
        }
      }
    },
    "applicationSpec": {
      "type": "object",
      "properties": {
        "source": {"$ref": "#/definitions/source"},
        "sources": {
          "type": "array",
          "items": {"$ref": "#/definitions/source"}
        }
      }
    }
  },
  "type": "object",
  "required": ["apiVersion", "kind", "spec"],
  "properties": {
    "apiVersion": {
      "type": "string",
      "pattern": "^argoproj\\.io/"
    },
    "kind": {"enum": ["Application", "ApplicationSet"]}
  },
  "oneOf": [
    {
      "properties": {
        "kind": {"enum": ["Application"]},
        "spec": {"$ref": "#/definitions/applicationSpec"}
      }
    },
    {
      "properties": {
        "kind": {"enum": ["ApplicationSet"]},
        "spec": {
          "type": "object",
          "properties": {
            "template": {
              "type": "object",
              "properties": {
                "spec": {"$ref": "#/definitions/applicationSpec"}
              }
            }
          }
        }
      }
    }
  ]
}
`

var schemaLoader = gojsonschema.NewStringLoader(applicationSchema)

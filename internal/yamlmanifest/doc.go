// Package yamlmanifest provides a YAML implementation of the config.Loader
// interface, accepting the same module catalog as the HCL manifests:
//
//	categories:
//	  - key: analysis-tools
//	    title: Analysis tools
//	modules:
//	  - id: dbscan-cluster
//	    name: DBSCAN
//	    kind: analyzer
//	    category: analysis-tools
//	    properties:
//	      - id: eps
//	        type: number
//	        default: 0.5
//	    variants:
//	      - id: default
//	        ports:
//	          - {name: data_input, direction: input, type: any}
//	          - {name: clustered_data, direction: output, type: any}
package yamlmanifest

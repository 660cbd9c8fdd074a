// Package hcl provides the HCL implementation of the config.Loader interface.
// It parses module manifests written in HCL and translates them into the
// format-agnostic model.Catalog.
//
// A manifest declares palette categories and modules:
//
//	category "data-processing" {
//	  title = "Data processing"
//	}
//
//	module "conditional" {
//	  name     = "Conditional"
//	  kind     = processor
//	  category = "data-processing"
//
//	  property "operator" {
//	    type    = select
//	    default = "gt"
//	    option "gt" { label = "Greater than" }
//	    option "lt" { label = "Less than" }
//	  }
//
//	  variant "default" {
//	    input "value" { type = number }
//	    output "true_result" { type = any }
//	  }
//	}
//
// Type keywords (`kind`, property `type`, port `type`) may be written either
// as bare identifiers or as quoted strings.
package hcl

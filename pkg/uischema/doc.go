// Package uischema loads UI overlay documents and applies them to form models
// as a decorator. Overlays relabel fields, pin widgets and reorder siblings
// without touching the form document itself. Files are JSON or YAML:
//
//	forms:
//	  signup:
//	    title: Create your account
//	    fields:
//	      email: {order: 1, label: Work email, widget: autocomplete}
//	      address.zip: {placeholder: "10115"}
package uischema

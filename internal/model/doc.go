// Package model defines the settings document and its parts.
//
// A settings file is a JSON object of blocks. Each block maps section names
// to sections, each section maps parameter names to parameters:
//
//	{
//	    "ui": {                       // Document key -> Block
//	        "display": {              // Block key -> Section
//	            "opacity": {          // Section key -> Parameter
//	                "type": "float",
//	                "value": 0.5,
//	                "default": 1.0,
//	                "range": [0.0, 1.0]
//	            }
//	        }
//	    }
//	}
//
// # Parameters
//
// A Parameter has a Kind (string, int, float, bool, color, dropdown), a
// current value and a default. Optional fields are "auto" (auto mode is
// supported when the field is present), "options" (dropdown choices),
// "range" ([min, max], either bound may be null) and "advanced" (a hint to
// hide the parameter by default).
//
// Effective values follow a fixed precedence:
//
//	p.Effective() // absent if auto is on, else value, else default
//	p.Default()   // always the stored default
//
// # Round-trips
//
// Every level keeps its keys in document order and a Parameter keeps fields it
// does not understand, so loading and saving a block does not reorder or drop
// anything. Untouched blocks of a Document are not decoded at all.
//
// # Validation
//
// Validate reports parameters whose type is unknown (ErrUnknownParameterType),
// dropdowns without options, values outside their range or options and
// malformed colours. Editing through Parameter.SetValue applies the same
// checks before a value is stored.
package model

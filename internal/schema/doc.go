// Package schema resolves field types and normalizes raw values for comparison.
//
// Every field has one of four type tags: number, string, date or boolean.
// Tags come from an explicit TypeMap or are inferred from row samples. A field
// without a tag is a string field.
//
// Normalize turns a raw record.Value into a Key, the comparable canonical form
// under a tag:
//
//	number   float64 (unparsable text is NaN)
//	date     epoch milliseconds (unparsable text is NaN)
//	boolean  case-insensitive equality to "true"
//	string   NFC normalized, lowercased text
//
// Empty values normalize to the null key for every tag except string, where
// they become the empty string. NaN keys are never equal to, less than or
// greater than anything, themselves included.
package schema

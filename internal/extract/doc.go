// Package extract turns free-form brief text into structured insights.
//
// Text is normalized once, every rule runs over the normalized document
// independently, and the engine folds the matches into the result
// categories: technical specs, brand guidelines, KPIs, deadlines, action
// items, warnings and creative requirements. Keyword tables live in a
// versioned Vocabulary that can be extended from a TOML rules file.
package extract

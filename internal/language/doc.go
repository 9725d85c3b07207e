// Package language turns the language settings users write ("pl", "polish",
// "pl-PL", "pol+eng") into the "+"-joined trained-data names tesseract loads,
// and back into readable names for status output.
package language

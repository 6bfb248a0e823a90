// Package storage writes output files safely.
//
// WriteFile streams data into a temporary file next to the destination and
// renames it into place, so readers never observe a half-written export and
// a failed export leaves any previous file untouched:
//
//	err := storage.WriteFile("data/results.json", func(w io.Writer) error {
//	    return json.NewEncoder(w).Encode(profiles)
//	})
package storage

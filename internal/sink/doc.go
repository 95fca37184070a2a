// Package sink writes canonical person records and company links to their
// configured destination.
//
// The rtdb sink targets a Firebase-style realtime database over plain HTTP
// PUTs; the file sink writes the same document tree as local JSON for dry
// runs and air-gapped use. Uploads isolate per-record failures so one bad
// record never aborts a whole batch.
package sink

package ingest

// Dedupe folds a sequence of validated rows into one Deal per deal key.
//
// Scalar fields follow the row with the strictly later last-modified date;
// a row that has a modified date beats one that does not; when neither has
// one, the first row encountered wins. Note history is a side channel: all
// non-empty notes across every row sharing the key are collected, then
// canonicalized, counted, and hashed onto the surviving record, so losing
// rows never lose their notes. Output order is first-encounter order.
func Dedupe(deals []*Deal) []*Deal {
	byKey := make(map[string]*Deal, len(deals))
	order := make([]string, 0, len(deals))

	for _, d := range deals {
		cur, ok := byKey[d.Key]
		if !ok {
			byKey[d.Key] = d
			order = append(order, d.Key)
			continue
		}

		if modifiedAfter(d, cur) {
			d.notes = append(append([]string(nil), cur.notes...), d.notes...)
			byKey[d.Key] = d
		} else {
			cur.notes = append(cur.notes, d.notes...)
		}
	}

	out := make([]*Deal, 0, len(order))
	for _, key := range order {
		d := byKey[key]
		d.CanonicalNotes, d.NoteCount = CanonicalizeNotes(d.notes)
		d.NoteHash = NoteHash(d.CanonicalNotes)
		out = append(out, d)
	}
	return out
}

// modifiedAfter reports whether a should replace b as the scalar winner.
func modifiedAfter(a, b *Deal) bool {
	if a.ModifiedDate == nil {
		return false
	}
	if b.ModifiedDate == nil {
		return true
	}
	return a.ModifiedDate.After(*b.ModifiedDate)
}

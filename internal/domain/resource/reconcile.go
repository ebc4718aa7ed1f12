package resource

// Record is anything keyed by the backend _id.
type Record interface {
	RecordID() string
}

// Append returns items with rec at the end. An entry with the same id is
// replaced in place so an id never appears twice.
func Append[T Record](items []T, rec T) []T {
	if i := indexOf(items, rec.RecordID()); i >= 0 {
		return Replace(items, rec.RecordID(), rec)
	}
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, rec)
}

// Prepend is Append for newest-first collections.
func Prepend[T Record](items []T, rec T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, rec)
	for _, item := range items {
		if item.RecordID() != rec.RecordID() {
			out = append(out, item)
		}
	}
	return out
}

// Replace swaps the entry whose id matches with rec. Unknown ids leave the
// collection as it was.
func Replace[T Record](items []T, id string, rec T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := range out {
		if out[i].RecordID() == id {
			out[i] = rec
		}
	}
	return out
}

func RemoveByID[T Record](items []T, id string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item.RecordID() != id {
			out = append(out, item)
		}
	}
	return out
}

func Find[T Record](items []T, id string) (T, bool) {
	if i := indexOf(items, id); i >= 0 {
		return items[i], true
	}
	var zero T
	return zero, false
}

func indexOf[T Record](items []T, id string) int {
	for i, item := range items {
		if item.RecordID() == id {
			return i
		}
	}
	return -1
}

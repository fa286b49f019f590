package sqlite

// Scanner is satisfied by *sql.Row and *sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// ScanItem scans a key, value and updated_at column triple.
func ScanItem(scanner Scanner) (*Item, error) {
	item := &Item{}
	var updatedAt string

	if err := scanner.Scan(&item.Key, &item.Value, &updatedAt); err != nil {
		return nil, err
	}

	// Rows written by hand may carry an empty or foreign timestamp; keep the value anyway.
	if t, err := parseStamp(updatedAt); err == nil {
		item.UpdatedAt = t
	}

	return item, nil
}

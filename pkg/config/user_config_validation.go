package config

import "fmt"

// Validate checks a loaded UserConfig for values that would otherwise
// surface as a confusing runtime panic or silent misbehavior: an unknown
// sort column, a column list containing an unrecognized column, or a
// non-positive delay.
func (c *UserConfig) Validate() error {
	known := make(map[ColumnKind]bool, len(DefaultColumns))
	for _, col := range DefaultColumns {
		known[col] = true
	}

	if len(c.Screen.Columns) == 0 {
		return fmt.Errorf("config: screen.columns must not be empty")
	}
	for _, col := range c.Screen.Columns {
		if !known[col] {
			return fmt.Errorf("config: unrecognized column %q in screen.columns", col)
		}
	}
	if !known[c.Screen.SortKey] {
		return fmt.Errorf("config: unrecognized sort key %q", c.Screen.SortKey)
	}
	if c.Screen.Delay <= 0 {
		return fmt.Errorf("config: screen.delay must be positive, got %s", c.Screen.Delay)
	}
	if c.Screen.HeaderColumns < 1 {
		return fmt.Errorf("config: screen.headerColumns must be at least 1, got %d", c.Screen.HeaderColumns)
	}
	return nil
}

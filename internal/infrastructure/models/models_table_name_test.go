package models

import "testing"

func TestTableNames(t *testing.T) {
	if got := (StateEntry{}).TableName(); got != "app_state" {
		t.Fatalf("unexpected StateEntry table name: %s", got)
	}
}

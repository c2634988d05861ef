package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntry_CloneIsDeep(t *testing.T) {
	d := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	e := &Entry{ID: "a", Name: "dunes", Order: 3, DateCreated: &d}

	c := e.Clone()
	c.Name = "changed"
	*c.DateCreated = c.DateCreated.Add(time.Hour)

	assert.Equal(t, "dunes", e.Name)
	assert.Equal(t, d, *e.DateCreated)
	assert.Nil(t, (*Entry)(nil).Clone())
}

func TestSnapshot_Find(t *testing.T) {
	s := &Snapshot{Entries: []*Entry{{ID: "a"}, {ID: "b"}}}
	assert.Equal(t, "b", s.Find("b").ID)
	assert.Nil(t, s.Find("z"))
}

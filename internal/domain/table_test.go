package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeduplicateKeepsFirstOccurrence(t *testing.T) {
	table := NewTable([]string{"Бренд", "Артикул поставщика"})
	table.Append(Row{"Бренд": "ALURA store", "Артикул поставщика": "dress-01"})
	table.Append(Row{"Бренд": "ALURA store", "Артикул поставщика": "dress-01"})
	table.Append(Row{"Бренд": "ALURA store", "Артикул поставщика": "skirt-02"})

	table.Deduplicate()

	assert.Len(t, table.Rows, 2)
	assert.Equal(t, "dress-01", table.Rows[0]["Артикул поставщика"])
	assert.Equal(t, "skirt-02", table.Rows[1]["Артикул поставщика"])
}

func TestConcatDropsUndeclaredColumns(t *testing.T) {
	dst := NewTable([]string{"Бренд"})
	src := NewTable([]string{"Бренд", "Лишняя колонка"})
	src.Append(Row{"Бренд": "ALURA store", "Лишняя колонка": "x"})

	dst.Concat(src)

	assert.Len(t, dst.Rows, 1)
	assert.Equal(t, "ALURA store", dst.Rows[0]["Бренд"])
	_, ok := dst.Rows[0]["Лишняя колонка"]
	assert.False(t, ok)
}

func TestNewTableTrimsColumnNames(t *testing.T) {
	table := NewTable([]string{"  Бренд  ", "Дата продажи"})

	assert.True(t, table.HasColumn("Бренд"))
	assert.False(t, table.HasColumn("  Бренд  "))
}

package export

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumptionPDF(t *testing.T) {
	doc, filename, err := ConsumptionPDF(sampleExportData())
	require.NoError(t, err)

	assert.Equal(t, "consumer-milk-consumption-2024-02.pdf", filename)
	require.NotEmpty(t, doc)
	assert.Equal(t, "%PDF", string(doc[:4]))
}

func TestConsumptionPDFWithoutDetails(t *testing.T) {
	data := sampleExportData()
	data.Details = nil

	doc, _, err := ConsumptionPDF(data)
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 20))
	assert.Equal(t, "a very long consu", truncate("a very long consumer name", 17))
	assert.Equal(t, "", truncate("", 5))

	cut := truncate("मीरादेवी शर्मा", 10)
	assert.True(t, utf8.ValidString(cut))
	assert.Equal(t, "मीरादेवी श", cut)
	assert.Equal(t, "मीरा", truncate("मीरा", 10))
}

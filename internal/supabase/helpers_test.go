package supabase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicFamilyRoundTrip(t *testing.T) {
	assert.Equal(t, "realtime:public:customers", topicFor("customers"))
	assert.Equal(t, "customers", familyFor("realtime:public:customers"))
	assert.Equal(t, "", familyFor("phoenix"))
	assert.Equal(t, "", familyFor("realtime:other:customers"))
}

func TestExtractID(t *testing.T) {
	assert.Equal(t, "abc", extractID(map[string]any{"id": "abc"}))
	assert.Equal(t, "", extractID(map[string]any{"id": 42}))
	assert.Equal(t, "", extractID(nil))
}

func TestStorageClient_PublicURL(t *testing.T) {
	client, err := NewStorageClient("https://proj.supabase.co/", "key", "documents")
	require.NoError(t, err)

	assert.Equal(t,
		"https://proj.supabase.co/storage/v1/object/public/documents/proj-1/123-abcd.pdf",
		client.PublicURL("proj-1/123-abcd.pdf"))
}

func TestFilterBuilder(t *testing.T) {
	var f filterBuilder
	assert.Equal(t, "", f.where())

	f.eq("status", "active")
	f.eq("customer_id", "c1")
	assert.Equal(t, " WHERE status = $1 AND customer_id = $2", f.where())
	assert.Equal(t, []any{"active", "c1"}, f.args)
}

func TestPatchBuilder(t *testing.T) {
	var p patchBuilder
	assert.True(t, p.empty())

	p.set("name", "New Name")
	p.set("status", "final")
	assert.False(t, p.empty())

	sets, idPlaceholder, args := p.clause("doc-1")
	assert.Equal(t, "name = $1, status = $2, updated_at = NOW()", sets)
	assert.Equal(t, "$3", idPlaceholder)
	assert.Equal(t, []any{"New Name", "final", "doc-1"}, args)
}

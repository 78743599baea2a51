package domain

// DocType classifies a legal document by its nature.
// Detection is keyword-based over the filename and content; the zero
// vocabulary match yields DocTypeUnknown, which is a valid type and
// never an error.
type DocType string

// Recognised document types.
const (
	// DocTypeContract covers contracts, accords and conventions.
	DocTypeContract DocType = "contrat"

	// DocTypeNote covers internal notes and memoranda.
	DocTypeNote DocType = "note"

	// DocTypeCaseLaw covers jurisprudence, rulings and court decisions.
	DocTypeCaseLaw DocType = "jurisprudence"

	// DocTypeDispute covers litigation and contentious procedure documents.
	DocTypeDispute DocType = "litige"

	// DocTypeConsultation covers legal opinions and advice.
	DocTypeConsultation DocType = "consultation"

	// DocTypeInvoice covers invoices, quotes and fee statements.
	DocTypeInvoice DocType = "facture"

	// DocTypeCorrespondence covers letters and emails.
	DocTypeCorrespondence DocType = "correspondance"

	// DocTypeUnknown is used when no vocabulary keyword matches.
	DocTypeUnknown DocType = "autre"
)

// IsValid returns true if the document type is recognised.
func (t DocType) IsValid() bool {
	switch t {
	case DocTypeContract, DocTypeNote, DocTypeCaseLaw, DocTypeDispute,
		DocTypeConsultation, DocTypeInvoice, DocTypeCorrespondence, DocTypeUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t DocType) String() string {
	return string(t)
}

// Metadata filter keys. These are the keys a FilterPredicate may carry
// and the keys stored alongside every indexed chunk.
const (
	// MetaSource is the original filename, the stable document identifier.
	MetaSource = "source"

	// MetaChunkID is the sequential chunk ordinal within a source.
	MetaChunkID = "chunk_id"

	// MetaDocType is the detected document type.
	MetaDocType = "type_doc"

	// MetaPerson is the extracted person name, when present.
	MetaPerson = "personne"

	// MetaDate is the first detected date mention, when present.
	MetaDate = "date"

	// MetaLength is the chunk character count (informational).
	MetaLength = "length"
)

// Metadata holds the structured tags derived from a document's
// identifier and content. Personne and Date are optional; their zero
// value means "not detected", which is valid partial metadata.
type Metadata struct {
	// Source is the original filename (stable identifier).
	Source string

	// ChunkID is the chunk ordinal within Source, sequential from 0.
	// (Source, ChunkID) is unique across the corpus.
	ChunkID int

	// Type is the detected document type.
	Type DocType

	// Personne is the extracted person name, empty if none detected.
	Personne string

	// Date is the first date mention found in content, normalised to
	// ISO form when parseable. Empty if none detected.
	Date string

	// Length is the character count of the chunk content.
	Length int
}

// Map renders the metadata as the flat key-value mapping stored in the
// vector index payload. Optional fields are omitted when absent.
func (m Metadata) Map() map[string]any {
	out := map[string]any{
		MetaSource:  m.Source,
		MetaChunkID: m.ChunkID,
		MetaDocType: m.Type.String(),
		MetaLength:  m.Length,
	}
	if m.Personne != "" {
		out[MetaPerson] = m.Personne
	}
	if m.Date != "" {
		out[MetaDate] = m.Date
	}
	return out
}

// Chunk is the unit stored and retrieved: a bounded-length contiguous
// slice of a source document together with its metadata. Chunks are
// immutable after ingestion and destroyed when their source is removed
// and re-synced.
type Chunk struct {
	// ID is the index point identifier (unique, assigned at ingestion).
	ID string

	// Content is the chunk text.
	Content string

	// Metadata carries the extracted tags, including Source and ChunkID.
	Metadata Metadata
}

// RawDocument is a source document as registered in the corpus store,
// before chunking. Content is the cleaned full text.
type RawDocument struct {
	// Source is the original filename (stable identifier).
	Source string

	// Content is the cleaned full text.
	Content string

	// ChunkCount is the number of chunks produced at ingestion.
	ChunkCount int
}

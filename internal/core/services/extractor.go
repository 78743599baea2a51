package services

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
	"github.com/plaide-labs/plaide-cli/internal/core/ports/driven"
	"github.com/plaide-labs/plaide-cli/internal/logger"
)

// Ensure RegexExtractor implements the interface.
var _ driven.TagExtractor = (*RegexExtractor)(nil)

// docTypeScanLimit bounds how much content is scanned for a type keyword.
const docTypeScanLimit = 1000

// personScanLimit bounds how much content is scanned for a person name.
const personScanLimit = 2000

// dateScanLimit bounds how much content is scanned for a date mention.
const dateScanLimit = 500

// docTypePattern associates a document type with its keyword stems.
// Order matters: the first matching entry wins.
type docTypePattern struct {
	docType domain.DocType
	re      *regexp.Regexp
}

var docTypePatterns = []docTypePattern{
	{domain.DocTypeContract, regexp.MustCompile(`contrat|accord|convention|engagement`)},
	{domain.DocTypeNote, regexp.MustCompile(`note|mémo|memorandum`)},
	{domain.DocTypeCaseLaw, regexp.MustCompile(`jurisprudence|arrêt|jugement|décision|cour`)},
	{domain.DocTypeDispute, regexp.MustCompile(`litige|contentieux|procédure|assignation|mise\s+en\s+demeure`)},
	{domain.DocTypeInvoice, regexp.MustCompile(`facture|devis|honoraires`)},
	{domain.DocTypeConsultation, regexp.MustCompile(`consultation|avis\s+juridique|conseil`)},
	{domain.DocTypeCorrespondence, regexp.MustCompile(`courrier|lettre|email|correspondance`)},
}

// queryDocTypeKeywords maps document types to the keywords that signal
// them in a question. Ordered like docTypePatterns, first match wins.
var queryDocTypeKeywords = []struct {
	docType  domain.DocType
	keywords []string
}{
	{domain.DocTypeContract, []string{"contrat", "accord", "convention"}},
	{domain.DocTypeNote, []string{"note interne", "note", "mémo", "memorandum"}},
	{domain.DocTypeCaseLaw, []string{"jurisprudence", "arrêt", "jugement", "décision"}},
	{domain.DocTypeDispute, []string{"litige", "contentieux", "procédure", "mise en demeure"}},
	{domain.DocTypeInvoice, []string{"facture", "devis", "honoraire"}},
	{domain.DocTypeConsultation, []string{"consultation", "avis juridique", "conseil"}},
	{domain.DocTypeCorrespondence, []string{"courrier", "lettre", "email"}},
}

// capName matches a capitalised French name token sequence.
const capName = `[A-ZÉÈÊË][a-zéèêëàâôûç]+(?:\s+[A-ZÉÈÊË][a-zéèêëàâôûç]+)*`

// contentPersonPatterns extract a person name from document content.
var contentPersonPatterns = []*regexp.Regexp{
	regexp.MustCompile(`Client\s*:\s*(` + capName + `)`),
	regexp.MustCompile(`M\.\s+(` + capName + `)`),
	regexp.MustCompile(`Mme\s+(` + capName + `)`),
	regexp.MustCompile(`Monsieur\s+(` + capName + `)`),
	regexp.MustCompile(`Madame\s+(` + capName + `)`),
	regexp.MustCompile(`Entre\s*:\s*.*?(` + capName + `)`),
	regexp.MustCompile(`(?:contrat|accord).*?(?:de|avec)\s+(` + capName + `)`),
}

// queryPersonPatterns extract a person name from a question.
var queryPersonPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:contrat|accord|document|note|facture|courrier).*?(?:de|concernant|pour|avec)\s+(` + capName + `)`),
	regexp.MustCompile(`(?:M\.|Monsieur|Mme|Madame)\s+(` + capName + `)`),
	regexp.MustCompile(`(?i)(?:client|partie|personne)\s+(` + capName + `)`),
}

// simpleNamePattern matches two or three consecutive capitalised words,
// the last-resort person heuristic for questions.
var simpleNamePattern = regexp.MustCompile(`\b([A-ZÉÈÊË][a-zéèêëàâôûç]+(?:\s+[A-ZÉÈÊË][a-zéèêëàâôûç]+){1,2})\b`)

// commonCapitalisedWords are capitalised words that are not names.
var commonCapitalisedWords = map[string]bool{
	"Monsieur": true, "Madame": true, "Client": true,
	"Contrat": true, "Document": true, "Note": true,
}

// filenameSkipWords are filename tokens that never form part of a
// person name.
var filenameSkipWords = map[string]bool{
	"contrat": true, "note": true, "facture": true, "interne": true,
	"projet": true, "accord": true, "convention": true, "courrier": true,
	"lettre": true, "email": true, "memo": true, "memorandum": true,
	"litige": true, "procedure": true, "commercial": true, "partenaire": true,
	"partenariat": true, "impaye": true, "client": true, "droit": true,
	"societes": true, "societe": true, "fiscal": true, "fiscalite": true,
	"consultation": true, "juridique": true, "jurisprudence": true,
	"historique": true, "contentieux": true, "demeure": true, "mise": true,
}

var (
	filenameExtPattern       = regexp.MustCompile(`\.(txt|csv|html|htm|pdf)$`)
	filenameTimestampPattern = regexp.MustCompile(`\d{8}_\d{6}_?`)
	filenameSplitPattern     = regexp.MustCompile(`[_\-\s]+`)
)

// datePatterns are the recognised date forms, tried in order. ISO
// dates are preferred; day-first numeric dates are normalised to ISO
// when parseable.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4}`),
}

// RegexExtractor is the default string-pattern tag extractor. It scans
// a fixed French legal vocabulary for document types, capitalised
// token pairs for person names, and recognised date patterns. Missing
// signals yield absent fields, never errors.
type RegexExtractor struct{}

// NewRegexExtractor creates the default tag extractor.
func NewRegexExtractor() *RegexExtractor {
	return &RegexExtractor{}
}

// ExtractDocument derives full metadata for one chunk of a document.
func (e *RegexExtractor) ExtractDocument(source, content string, chunkID int) domain.Metadata {
	meta := domain.Metadata{
		Source:   source,
		ChunkID:  chunkID,
		Type:     e.detectDocType(source, content),
		Personne: e.extractPerson(source, content),
		Date:     e.extractDate(content),
		Length:   len(content),
	}
	logger.Debug("Extracted metadata for %s chunk %d: type=%s personne=%q date=%q",
		source, chunkID, meta.Type, meta.Personne, meta.Date)
	return meta
}

// ExtractQuery derives a filter predicate from a question.
func (e *RegexExtractor) ExtractQuery(question string) domain.FilterPredicate {
	predicate := domain.FilterPredicate{}

	if docType, ok := e.detectQueryDocType(question); ok {
		predicate[domain.MetaDocType] = docType.String()
		logger.Debug("Query filter: type_doc=%s", docType)
	}
	if person := e.extractQueryPerson(question); person != "" {
		predicate[domain.MetaPerson] = person
		logger.Debug("Query filter: personne=%s", person)
	}

	return predicate
}

// detectDocType scans the filename first, then the leading content,
// for a type keyword. First match wins; no match yields unknown.
func (e *RegexExtractor) detectDocType(source, content string) domain.DocType {
	sourceLower := strings.ToLower(source)
	for _, p := range docTypePatterns {
		if p.re.MatchString(sourceLower) {
			return p.docType
		}
	}

	sample := strings.ToLower(runePrefix(content, docTypeScanLimit))
	for _, p := range docTypePatterns {
		if p.re.MatchString(sample) {
			return p.docType
		}
	}

	return domain.DocTypeUnknown
}

// detectQueryDocType scans a question for a type keyword.
func (e *RegexExtractor) detectQueryDocType(question string) (domain.DocType, bool) {
	questionLower := strings.ToLower(question)
	for _, entry := range queryDocTypeKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(questionLower, kw) {
				return entry.docType, true
			}
		}
	}
	return domain.DocTypeUnknown, false
}

// extractPerson tries the filename first, then the leading content.
// The filename heuristic: strip extension and timestamps, split into
// words, drop vocabulary words, and treat two remaining words as a
// name. Absence yields "".
func (e *RegexExtractor) extractPerson(source, content string) string {
	cleaned := strings.ToLower(source)
	cleaned = filenameExtPattern.ReplaceAllString(cleaned, "")
	cleaned = filenameTimestampPattern.ReplaceAllString(cleaned, "")

	var nameWords []string
	for _, w := range filenameSplitPattern.Split(cleaned, -1) {
		if w == "" || len(w) < 2 || filenameSkipWords[w] {
			continue
		}
		nameWords = append(nameWords, w)
	}
	if len(nameWords) >= 2 {
		return titleCase(nameWords[0]) + " " + titleCase(nameWords[1])
	}

	sample := runePrefix(content, personScanLimit)
	for _, re := range contentPersonPatterns {
		if m := re.FindStringSubmatch(sample); m != nil {
			name := strings.TrimSpace(m[1])
			if len(name) >= 3 {
				return name
			}
		}
	}

	return ""
}

// extractQueryPerson extracts a person name from a question, trying
// contextual patterns first and bare capitalised pairs last.
func (e *RegexExtractor) extractQueryPerson(question string) string {
	for _, re := range queryPersonPatterns {
		if m := re.FindStringSubmatch(question); m != nil {
			return titleCaseName(strings.TrimSpace(m[1]))
		}
	}

	for _, m := range simpleNamePattern.FindAllString(question, -1) {
		if !commonCapitalisedWords[m] && len(m) > 3 {
			return m
		}
	}

	return ""
}

// extractDate returns the first date-like substring in the leading
// content, normalised to ISO form when parseable.
func (e *RegexExtractor) extractDate(content string) string {
	sample := runePrefix(content, dateScanLimit)
	for _, re := range datePatterns {
		if m := re.FindString(sample); m != "" {
			return normaliseDate(m)
		}
	}
	return ""
}

// normaliseDate converts a matched date to ISO (2006-01-02) when one
// of the recognised layouts parses it; otherwise the raw match is kept.
func normaliseDate(raw string) string {
	layouts := []string{"2006-01-02", "02/01/2006", "2/1/2006", "02-01-2006", "2-1-2006", "02/01/06", "2/1/06"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}

// titleCase upper-cases the first rune and lower-cases the rest.
func titleCase(word string) string {
	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// titleCaseName title-cases each whitespace-separated word of a name.
func titleCaseName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = titleCase(w)
	}
	return strings.Join(words, " ")
}

// runePrefix returns the first n runes of s without splitting a rune.
func runePrefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

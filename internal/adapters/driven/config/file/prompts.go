package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/plaide-labs/plaide-cli/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk, with
// fallback to embedded defaults.
//
// The store uses lazy initialisation: files are only created when first
// accessed, not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains the embedded default prompts. They are used
// when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptAnswer: `Tu es un assistant juridique. Réponds à la question en te fondant UNIQUEMENT sur les extraits de documents fournis ci-dessous.

Si les extraits ne permettent pas de répondre, dis-le clairement. N'invente jamais d'information.

Termine ta réponse par un marqueur [Sources: n, n] listant les numéros des documents réellement utilisés.

Extraits :
{context}

Question : {question}

Réponse :`,

	driven.PromptReformulate: `Voici les derniers échanges d'une conversation, suivis d'une nouvelle question. Réécris la question pour qu'elle soit autonome et compréhensible sans la conversation. Remplace les pronoms et références implicites par ce qu'ils désignent.

Réponds UNIQUEMENT avec la question réécrite, rien d'autre.

{history}

Question : {question}

Question réécrite :`,

	driven.PromptTitle: `Propose un titre de 3 à 5 mots pour une conversation qui commence par la question suivante. Réponds UNIQUEMENT avec le titre, sans guillemets.

Question : {question}

Titre :`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.plaide/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".plaide", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default
// files. Falls back to the embedded default if the file is unreadable.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil {
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Double-check so a concurrent load is not overwritten
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Prompts Plaide

Ce répertoire contient les prompts utilisés par Plaide, modifiables librement.

## Fichiers

- ` + "`answer.txt`" + ` - Génération de la réponse à partir des extraits retrouvés
- ` + "`reformulate.txt`" + ` - Réécriture des questions de suivi en questions autonomes
- ` + "`title.txt`" + ` - Génération du titre de conversation

## Personnalisation

Modifiez un fichier pour changer le comportement. Les changements prennent
effet à la prochaine commande.

## Variables

Les prompts utilisent des variables entre accolades :
- ` + "`{context}`" + ` - Les extraits de documents numérotés
- ` + "`{question}`" + ` - La question de l'utilisateur
- ` + "`{history}`" + ` - Les derniers échanges de la conversation

Conservez ces variables lors de vos modifications.
`
	return os.WriteFile(path, []byte(content), 0600)
}

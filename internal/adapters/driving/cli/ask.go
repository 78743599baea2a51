package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/plaide-labs/plaide-cli/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Poser une question sur le corpus",
	Long: `Pose une question et affiche la réponse avec ses sources.

Sans option, la question est traitée seule. Avec --conversation, la
question s'inscrit dans une conversation existante: l'historique guide
la reformulation et l'échange est enregistré. Avec --save, une nouvelle
conversation est créée.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

var (
	askConversationID string
	askSave           bool
	askJSON           bool
)

func init() {
	askCmd.Flags().StringVarP(&askConversationID, "conversation", "c", "", "ID de conversation à poursuivre")
	askCmd.Flags().BoolVar(&askSave, "save", false, "enregistrer l'échange dans une nouvelle conversation")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "sortie JSON structurée")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := initServices(); err != nil {
		return err
	}
	if askConversationID != "" && askSave {
		return errors.New("--conversation et --save sont exclusifs")
	}

	question := args[0]
	ctx := cmd.Context()

	var history []domain.Message
	convID := askConversationID
	if convID != "" {
		conv, err := convService.Get(ctx, convID)
		if err != nil {
			return fmt.Errorf("loading conversation %s: %w", convID, err)
		}
		history = conv.Messages
	} else if askSave {
		conv, err := convService.Create(ctx)
		if err != nil {
			return fmt.Errorf("creating conversation: %w", err)
		}
		convID = conv.ID
	}

	answer, err := askService.Ask(ctx, question, history)
	if err != nil {
		return err
	}

	if convID != "" {
		userMsg := domain.Message{ID: uuid.NewString(), Role: domain.RoleUser, Content: question}
		if err := convService.Append(ctx, convID, userMsg); err != nil {
			return fmt.Errorf("saving question: %w", err)
		}
		assistantMsg := domain.Message{
			ID:      uuid.NewString(),
			Role:    domain.RoleAssistant,
			Content: answer.Text,
			Sources: answer.Sources,
		}
		if err := convService.Append(ctx, convID, assistantMsg); err != nil {
			return fmt.Errorf("saving answer: %w", err)
		}
	}

	if askJSON {
		return printAnswerJSON(cmd, question, convID, answer)
	}

	cmd.Println(answer.Text)
	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, src := range answer.Sources {
			cmd.Printf("  - %s (extrait %d)\n", src.Metadata.Source, src.Metadata.ChunkID)
		}
	}
	if convID != "" && askSave {
		cmd.Printf("\nConversation enregistrée: %s\n", convID)
	}
	return nil
}

// answerPayload is the --json output shape.
type answerPayload struct {
	Question             string          `json:"question"`
	ReformulatedQuestion string          `json:"reformulated_question,omitempty"`
	Answer               string          `json:"answer"`
	Outcome              string          `json:"outcome"`
	RetrievalStep        int             `json:"retrieval_step"`
	Sources              []sourcePayload `json:"sources"`
	ConversationID       string          `json:"conversation_id,omitempty"`
}

type sourcePayload struct {
	Source  string `json:"source"`
	ChunkID int    `json:"chunk_id"`
	Excerpt string `json:"excerpt"`
}

func printAnswerJSON(cmd *cobra.Command, question, convID string, answer *domain.Answer) error {
	payload := answerPayload{
		Question:       question,
		Answer:         answer.Text,
		Outcome:        string(answer.Outcome),
		RetrievalStep:  int(answer.Step),
		Sources:        make([]sourcePayload, 0, len(answer.Sources)),
		ConversationID: convID,
	}
	if answer.ReformulatedQuestion != question {
		payload.ReformulatedQuestion = answer.ReformulatedQuestion
	}
	for _, src := range answer.Sources {
		payload.Sources = append(payload.Sources, sourcePayload{
			Source:  src.Metadata.Source,
			ChunkID: src.Metadata.ChunkID,
			Excerpt: excerpt(src.Content, 160),
		})
	}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding answer: %w", err)
	}
	cmd.Println(string(out))
	return nil
}

// excerpt shortens content for display, cutting on runes.
func excerpt(content string, limit int) string {
	content = strings.Join(strings.Fields(content), " ")
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit-3]) + "..."
}

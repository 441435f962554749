package sim

import (
	"math/rand"
	"time"

	"ecomsim/config"
	"ecomsim/internal/models"
)

const messageSuccessProb = 0.9

// MessageEngine generates daily promotional message sends against the
// current customer snapshot.
type MessageEngine struct {
	cfg      config.MessageConfig
	channels []string
	rng      *rand.Rand
}

func NewMessageEngine(cfg config.MessageConfig, channels []string, rng *rand.Rand) *MessageEngine {
	return &MessageEngine{
		cfg:      cfg,
		channels: channels,
		rng:      rng,
	}
}

// GenerateDaily emits a day's sends with globally unique ids starting at
// idOffset+1. By default customers are sampled without repeats; repeat mode
// draws each pick independently.
func (e *MessageEngine) GenerateDaily(date time.Time, snapshot []models.CustomerSnapshot, idOffset int64) []models.Message {
	if len(snapshot) == 0 {
		return nil
	}
	custIDs := make([]int64, len(snapshot))
	for i, row := range snapshot {
		custIDs[i] = row.CustomerID
	}

	count := randBetween(e.rng, e.cfg.DailyRange.Min, e.cfg.DailyRange.Max)

	var targets []int64
	if e.cfg.AllowRepeats {
		targets = make([]int64, count)
		for i := range targets {
			targets[i] = custIDs[e.rng.Intn(len(custIDs))]
		}
	} else {
		targets = sampleIDs(e.rng, custIDs, count)
	}

	messages := make([]models.Message, 0, len(targets))
	for i, custID := range targets {
		success := models.FlagNo
		if e.rng.Float64() < messageSuccessProb {
			success = models.FlagYes
		}
		messages = append(messages, models.Message{
			ID:         idOffset + int64(i) + 1,
			CustomerID: custID,
			Channel:    choice(e.rng, e.channels),
			IsSuccess:  success,
			Date:       date,
		})
	}
	return messages
}

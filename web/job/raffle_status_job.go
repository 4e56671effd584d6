package job

import (
	"fmt"
	"time"

	"rifamania/logger"
	"rifamania/web/global"
	"rifamania/web/service"

	"go.uber.org/atomic"
)

// RaffleStatusJob is the periodic sweep: it moves Online raffles whose draw
// date passed, or whose pool sold out, into Sortear. Safe to run at any
// frequency; a sweep that observes a stale sold count just catches the
// raffle on the next tick.
type RaffleStatusJob struct {
	raffleService service.RaffleService

	running atomic.Bool
}

func NewRaffleStatusJob() *RaffleStatusJob {
	return &RaffleStatusJob{}
}

func (j *RaffleStatusJob) Run() {
	if !j.running.CompareAndSwap(false, true) {
		// previous sweep still in flight
		return
	}
	defer j.running.Store(false)

	moved, err := j.raffleService.SweepStatuses(time.Now())
	if err != nil {
		logger.Warning("raffle status sweep failed:", err)
	}
	if len(moved) == 0 {
		return
	}
	for _, raffle := range moved {
		logger.Infof("raffle %s (%s) moved to %s", raffle.Id, raffle.Slug, raffle.Status)
	}

	if global.TgBot == nil || !global.TgBot.IsRunning() {
		return
	}
	for _, raffle := range moved {
		msg := fmt.Sprintf("⏳ Rifa \"%s\" está pronta para sorteio.", raffle.Name)
		if err := global.TgBot.SendMessage(msg); err != nil {
			logger.Warning("failed to notify raffle transition:", err)
		}
	}
}

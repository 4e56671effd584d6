package service

import (
	"time"

	"rifamania/database"
	"rifamania/database/model"
	"rifamania/logger"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// Status is the owner-dashboard snapshot: host health plus raffle totals.
type Status struct {
	T      time.Time `json:"-"`
	Cpu    float64   `json:"cpu"`
	Uptime uint64    `json:"uptime"`
	Mem    struct {
		Current uint64 `json:"current"`
		Total   uint64 `json:"total"`
	} `json:"mem"`
	Raffles struct {
		Total     int64 `json:"total"`
		Online    int64 `json:"online"`
		Concluded int64 `json:"concluded"`
	} `json:"raffles"`
}

type ServerService struct{}

func (s *ServerService) GetStatus(lastStatus *Status) *Status {
	now := time.Now()
	status := &Status{T: now}

	percents, err := cpu.Percent(0, false)
	if err != nil {
		logger.Warning("get cpu percent failed:", err)
	} else if len(percents) > 0 {
		status.Cpu = percents[0]
	}

	upTime, err := host.Uptime()
	if err != nil {
		logger.Warning("get uptime failed:", err)
	} else {
		status.Uptime = upTime
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		logger.Warning("get virtual memory failed:", err)
	} else {
		status.Mem.Current = memInfo.Used
		status.Mem.Total = memInfo.Total
	}

	db := database.GetDB()
	if err := db.Model(&model.Raffle{}).Count(&status.Raffles.Total).Error; err != nil {
		logger.Warning("count raffles failed:", err)
	}
	if err := db.Model(&model.Raffle{}).Where("status = ?", model.Online).Count(&status.Raffles.Online).Error; err != nil {
		logger.Warning("count online raffles failed:", err)
	}
	if err := db.Model(&model.Raffle{}).Where("status = ?", model.Concluded).Count(&status.Raffles.Concluded).Error; err != nil {
		logger.Warning("count concluded raffles failed:", err)
	}

	return status
}

package api

import (
	"net/http"

	"github.com/c9s/goprocinfo/linux"
	"go.uber.org/zap"
)

type Stats struct {
	MemStats  *linux.MemInfo
	DiskStats *linux.Disk
	LoadStats *linux.LoadAvg
	TodoCount uint64
	Records   int
	Events    int
}

func (s *Stats) MemUsedKb() uint64 {
	return s.MemStats.MemTotal - s.MemStats.MemAvailable
}

func (s *Stats) MemUsedPercent() float64 {
	if s.MemStats.MemTotal == 0 {
		return 0
	}

	return float64(s.MemUsedKb()) / float64(s.MemStats.MemTotal)
}

func (s *Stats) DiskUsed() uint64 {
	return s.DiskStats.Used
}

// GetStats reads host figures from /proc. On hosts without procfs the
// readings come back zeroed rather than failing the call.
func (a *Api) GetStats() (*Stats, error) {
	s := &Stats{
		MemStats:  a.memoryInfo(),
		DiskStats: a.diskInfo(),
		LoadStats: a.loadAverage(),
	}

	var err error
	if s.TodoCount, err = a.Todos.Count(); err != nil {
		return nil, err
	}
	if s.Records, err = a.Todos.Texts.Count(); err != nil {
		return nil, err
	}
	if a.Events != nil {
		if s.Events, err = a.Events.Count(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (a *Api) GetStatsHandler(w http.ResponseWriter, r *http.Request) {
	s, err := a.GetStats()
	if err != nil {
		a.internalError(w, r, "stats", err)
		return
	}

	writeJSON(w, http.StatusOK, s)
}

func (a *Api) memoryInfo() *linux.MemInfo {
	memstats, err := linux.ReadMemInfo("/proc/meminfo")
	if err != nil {
		a.log.Debug("reading /proc/meminfo", zap.Error(err))
		return &linux.MemInfo{}
	}

	return memstats
}

func (a *Api) diskInfo() *linux.Disk {
	diskstats, err := linux.ReadDisk("/")
	if err != nil {
		a.log.Debug("reading disk stats for /", zap.Error(err))
		return &linux.Disk{}
	}

	return diskstats
}

func (a *Api) loadAverage() *linux.LoadAvg {
	loadavg, err := linux.ReadLoadAvg("/proc/loadavg")
	if err != nil {
		a.log.Debug("reading /proc/loadavg", zap.Error(err))
		return &linux.LoadAvg{}
	}

	return loadavg
}

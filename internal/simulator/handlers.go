package simulator

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"smartenergy/internal/logger"
	"smartenergy/internal/models"
)

// Handler wires the HTTP layer to the store and logging.
type Handler struct {
	store *Store
	log   *logger.Logger
}

func NewHandler(store *Store, log *logger.Logger) *Handler {
	return &Handler{store: store, log: log}
}

// InitRoutes builds the Gin router with all contract routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", h.health)

	device := router.Group("/device")
	{
		device.GET("/list", h.listDevices)
		device.PATCH("/toggle", h.toggleDevice)
		device.DELETE("/remove/:id", h.removeDevice)
		device.POST("/add", h.addDevice)
	}

	auto := router.Group("/auto")
	{
		auto.GET("/config", h.getAutoConfig)
		auto.POST("/config", h.setAutoConfig)
		auto.GET("/decide", h.decide)
		auto.GET("/check", h.check)
		auto.POST("/monitor/start", h.startMonitor)
		auto.POST("/monitor/stop", h.stopMonitor)
		auto.GET("/monitor/status", h.monitorStatus)
	}

	usage := router.Group("/usage")
	{
		usage.GET("/daily", h.usageDaily)
		usage.GET("/logs", h.usageLogs)
		usage.POST("/add", h.usageAdd)
	}

	sim := router.Group("/simulate")
	{
		sim.POST("/daily", h.simulateDaily)
		sim.POST("/range", h.simulateRange)
		sim.GET("/temperature", h.simulateTemperature)
		sim.GET("/config", h.simulateConfig)
		sim.GET("/stats", h.simulateStats)
	}

	// Live device-state stream on the same port.
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ---------- devices ----------

func (h *Handler) listDevices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "devices": h.store.Devices()})
}

func (h *Handler) toggleDevice(c *gin.Context) {
	var req models.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.DeviceID == 0 && req.Name == "") {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": "bad payload"})
		return
	}

	// Manual air-conditioner control is refused while the monitor owns it.
	if h.store.Auto().MonitorEnabled {
		if d, found := h.findTarget(req); found && d.DeviceType == models.TypeAirConditioner {
			c.JSON(http.StatusConflict, gin.H{"ok": false, "msg": "air conditioner is under automatic control"})
			return
		}
	}

	d, found := h.store.Toggle(req.DeviceID, req.Name, req.On)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "msg": "device not found"})
		return
	}
	h.log.Infow("device toggled", "device_id", d.DeviceID, "on", d.Status.IsOn)
	c.JSON(http.StatusOK, gin.H{"ok": true, "toggled": gin.H{"is_on": d.Status.IsOn}})
}

func (h *Handler) findTarget(req models.ToggleRequest) (models.Device, bool) {
	for _, d := range h.store.Devices() {
		if (req.DeviceID != 0 && d.DeviceID == req.DeviceID) || (req.DeviceID == 0 && d.DeviceName == req.Name) {
			return d, true
		}
	}
	return models.Device{}, false
}

func (h *Handler) removeDevice(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": "invalid device id"})
		return
	}
	if !h.store.Remove(id) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "msg": "device not found"})
		return
	}
	h.log.Infow("device removed", "device_id", id)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type addDeviceRequest struct {
	DeviceName   string  `json:"device_name" binding:"required"`
	DeviceType   string  `json:"device_type" binding:"required"`
	Location     string  `json:"location"`
	RatedPowerKW float64 `json:"rated_power"`
}

func (h *Handler) addDevice(c *gin.Context) {
	var req addDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": "invalid body: " + err.Error()})
		return
	}
	d := h.store.Add(models.Device{
		DeviceName:   req.DeviceName,
		DeviceType:   req.DeviceType,
		Location:     req.Location,
		RatedPowerKW: req.RatedPowerKW,
	})
	c.JSON(http.StatusOK, gin.H{"ok": true, "device": d})
}

// ---------- auto control ----------

func (h *Handler) getAutoConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Auto())
}

type autoConfigRequest struct {
	MonitorEnabled  *bool    `json:"monitor_enabled"`
	TargetTempC     *float64 `json:"target_temp_c"`
	IntervalSeconds *int     `json:"interval_seconds"`
}

func (h *Handler) setAutoConfig(c *gin.Context) {
	var req autoConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": "invalid body: " + err.Error()})
		return
	}
	cfg := h.store.Auto()
	if req.MonitorEnabled != nil {
		cfg.MonitorEnabled = *req.MonitorEnabled
	}
	if req.TargetTempC != nil {
		cfg.TargetTempC = *req.TargetTempC
	}
	if req.IntervalSeconds != nil {
		cfg.IntervalSeconds = *req.IntervalSeconds
	}
	h.store.SetAuto(cfg)
	c.JSON(http.StatusOK, gin.H{"ok": true, "config": cfg})
}

func (h *Handler) decide(c *gin.Context) {
	temp, err := strconv.ParseFloat(c.Query("temp"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": "temp required"})
		return
	}
	action, state := h.store.Decide(temp)
	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"action": action,
		"state":  state,
		"target": h.store.Auto().TargetTempC,
	})
}

func (h *Handler) check(c *gin.Context) {
	now := h.store.now()
	temp := outdoorTemperature(h.store.newRNG(nil), now, now.Hour())
	action, state := h.store.Decide(temp)
	c.JSON(http.StatusOK, gin.H{
		"ok":              true,
		"temp":            temp,
		"action":          action,
		"state":           state,
		"monitor_enabled": h.store.Auto().MonitorEnabled,
	})
}

type startMonitorRequest struct {
	Interval int `json:"interval"`
}

func (h *Handler) startMonitor(c *gin.Context) {
	var req startMonitorRequest
	_ = c.ShouldBindJSON(&req)

	interval := time.Duration(req.Interval) * time.Second
	if req.Interval <= 0 {
		interval = time.Duration(h.store.Auto().IntervalSeconds) * time.Second
	}
	if interval <= 0 {
		interval = time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())
	if !h.store.StartMonitor(interval, cancel) {
		cancel()
		c.JSON(http.StatusConflict, gin.H{"ok": false, "msg": "monitor already running"})
		return
	}
	go h.store.RunMonitor(ctx, interval, h.log)
	c.JSON(http.StatusOK, gin.H{"ok": true, "interval": int(interval.Seconds())})
}

func (h *Handler) stopMonitor(c *gin.Context) {
	h.store.StopMonitor()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) monitorStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.MonitorStatus())
}

// ---------- usage ----------

func (h *Handler) rangeParams(c *gin.Context) (string, string, bool) {
	start := c.Query("start_date")
	end := c.Query("end_date")
	if _, err := parseDate(start); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": "invalid start_date, use YYYY-MM-DD"})
		return "", "", false
	}
	if _, err := parseDate(end); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": "invalid end_date, use YYYY-MM-DD"})
		return "", "", false
	}
	return start, end, true
}

func (h *Handler) usageDaily(c *gin.Context) {
	start, end, ok := h.rangeParams(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.store.DailyUsage(start, end))
}

func (h *Handler) usageLogs(c *gin.Context) {
	start, end, ok := h.rangeParams(c)
	if !ok {
		return
	}
	logs := h.store.LogsInRange(start, end)
	c.JSON(http.StatusOK, gin.H{"ok": true, "count": len(logs), "logs": logs})
}

type usageAddRequest struct {
	DeviceID   int     `json:"device_id"`
	DeviceName string  `json:"device_name"`
	Date       string  `json:"date"`
	KWh        float64 `json:"kwh" binding:"required"`
	PowerWatts float64 `json:"power_watts"`
	Hours      float64 `json:"hours"`
}

func (h *Handler) usageAdd(c *gin.Context) {
	var req usageAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": "kwh required"})
		return
	}
	date := req.Date
	if date == "" {
		date = h.store.now().Format(layoutDate)
	} else if _, err := parseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": err.Error()})
		return
	}
	name := req.DeviceName
	if name == "" {
		if d, found := h.findTarget(models.ToggleRequest{DeviceID: req.DeviceID}); found {
			name = d.DeviceName
		}
	}
	h.store.AppendLog(PowerLog{
		DeviceID:   req.DeviceID,
		DeviceName: name,
		Date:       date,
		PowerWatts: req.PowerWatts,
		Hours:      req.Hours,
		KWh:        req.KWh,
	})
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ---------- simulation ----------

type simulateDailyRequest struct {
	Date   string `json:"date" binding:"required"`
	SaveDB bool   `json:"save_to_db"`
	Seed   *int64 `json:"seed"`
}

func (h *Handler) simulateDaily(c *gin.Context) {
	var req simulateDailyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": "date is required (format: YYYY-MM-DD)"})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": err.Error()})
		return
	}
	outdoor, results, total := h.store.SimulateDay(date, req.Seed, req.SaveDB)
	c.JSON(http.StatusOK, gin.H{
		"ok":           true,
		"date":         req.Date,
		"outdoor_temp": outdoor,
		"devices":      results,
		"device_count": len(results),
		"total_kwh":    total,
		"saved":        req.SaveDB,
	})
}

type simulateRangeRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	SaveDB    bool   `json:"save_to_db"`
	Seed      *int64 `json:"seed"`
}

func (h *Handler) simulateRange(c *gin.Context) {
	var req simulateRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": "start_date and end_date are required"})
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": err.Error()})
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": err.Error()})
		return
	}
	if start.After(end) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": "start_date must be before end_date"})
		return
	}
	days, records, total := h.store.SimulateRange(start, end, req.Seed, req.SaveDB)
	c.JSON(http.StatusOK, gin.H{
		"ok":             true,
		"start_date":     req.StartDate,
		"end_date":       req.EndDate,
		"days_simulated": days,
		"total_records":  records,
		"total_kwh":      total,
		"saved":          req.SaveDB,
	})
}

func (h *Handler) simulateTemperature(c *gin.Context) {
	dateStr := c.DefaultQuery("date", h.store.now().Format(layoutDate))
	hour, err := strconv.Atoi(c.DefaultQuery("hour", "12"))
	if err != nil || hour < 0 || hour > 23 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": "hour must be between 0 and 23"})
		return
	}
	acRunning := c.DefaultQuery("ac_running", "false") == "true"

	date, err := parseDate(dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": err.Error()})
		return
	}
	outdoor := outdoorTemperature(h.store.newRNG(nil), date, hour)
	c.JSON(http.StatusOK, gin.H{
		"ok":           true,
		"date":         dateStr,
		"hour":         hour,
		"outdoor_temp": outdoor,
		"indoor_temp":  indoorTemperature(outdoor, acRunning),
		"ac_running":   acRunning,
	})
}

func (h *Handler) simulateConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":              true,
		"device_profiles": deviceProfiles,
		"temperature_config": gin.H{
			"daily_amplitude": dailyAmplitude,
			"random_noise":    randomNoise,
			"indoor_lag":      indoorLag,
			"cooling_effect":  coolingEffect,
		},
	})
}

func (h *Handler) simulateStats(c *gin.Context) {
	total, minDate, maxDate, perDevice := h.store.Stats()
	devices := make([]gin.H, 0, len(perDevice))
	for name, kwh := range perDevice {
		devices = append(devices, gin.H{"device_name": name, "total_kwh": round2(kwh)})
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":            true,
		"total_records": total,
		"date_range":    gin.H{"start": minDate, "end": maxDate},
		"devices":       devices,
	})
}

package http

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"liyu1981.xyz/plant-monitor-service/pkg/common"
	"liyu1981.xyz/plant-monitor-service/pkg/models"
	"liyu1981.xyz/plant-monitor-service/pkg/plant"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

var nameSchema = z.String().Min(1).Max(64).Required()

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (rs *RestfulServer) device(c *gin.Context) (*models.Device, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plant id"})
		return nil, false
	}
	device, err := rs.Plant.Registry.GetByID(uint(id))
	if err != nil {
		rs.writeError(c, err)
		return nil, false
	}
	return device, true
}

// formPhoto returns the optional "photo" upload. The caller closes the file.
func formPhoto(c *gin.Context) (*models.Photo, multipart.File, error) {
	header, err := c.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, common.Validationf("read photo: %s", err)
	}
	f, err := header.Open()
	if err != nil {
		return nil, nil, common.Validationf("open photo: %s", err)
	}
	return &models.Photo{Filename: header.Filename, Body: f}, f, nil
}

func (rs *RestfulServer) ListPlants(c *gin.Context) {
	devices, err := rs.Plant.Registry.List()
	if err != nil {
		rs.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, devices)
}

func (rs *RestfulServer) CreatePlant(c *gin.Context) {
	name := c.PostForm("name")
	if errs := nameSchema.Validate(&name); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs})
		return
	}

	photo, f, err := formPhoto(c)
	if err != nil {
		rs.writeError(c, err)
		return
	}
	if f != nil {
		defer f.Close()
	}

	device, err := rs.Plant.Registry.RegisterManual(name, photo)
	if err != nil {
		rs.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, device)
}

func (rs *RestfulServer) GetPlant(c *gin.Context) {
	device, ok := rs.device(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, device)
}

func (rs *RestfulServer) UpdatePlant(c *gin.Context) {
	device, ok := rs.device(c)
	if !ok {
		return
	}

	name := c.PostForm("name")
	if errs := nameSchema.Validate(&name); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs})
		return
	}

	photo, f, err := formPhoto(c)
	if err != nil {
		rs.writeError(c, err)
		return
	}
	if f != nil {
		defer f.Close()
	}

	updated, err := rs.Plant.Registry.Update(device.ID, name, photo)
	if err != nil {
		rs.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (rs *RestfulServer) DeletePlant(c *gin.Context) {
	device, ok := rs.device(c)
	if !ok {
		return
	}

	deleted, err := rs.Plant.Registry.Delete(device.ID)
	if err != nil {
		rs.writeError(c, err)
		return
	}
	if rs.RateLimiterStore != nil {
		rs.RateLimiterStore.Forget(deleted.Identifier())
	}
	c.JSON(http.StatusOK, deleted)
}

func (rs *RestfulServer) RequestReset(c *gin.Context) {
	device, ok := rs.device(c)
	if !ok {
		return
	}
	if err := rs.Plant.Reset.RequestReset(device.Identifier()); err != nil {
		rs.writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "reset requested"})
}

type CommandRequest struct {
	Kind  int `json:"kind"`
	Value int `json:"value"`
}

var commandRequestSchema = z.Struct(z.Shape{
	"kind":  z.Int().GTE(int(models.CommandSetMoistureThreshold)).LTE(int(models.CommandSetAutoWatering)).Required(),
	"value": z.Int(),
})

func (rs *RestfulServer) PostCommand(c *gin.Context) {
	device, ok := rs.device(c)
	if !ok {
		return
	}

	var req CommandRequest
	if errs := commandRequestSchema.Parse(zhttp.Request(c.Request), &req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs})
		return
	}

	if err := rs.Plant.Mailbox.SetCommand(device.Identifier(), models.CommandKind(req.Kind), req.Value); err != nil {
		rs.writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, models.Command{Kind: models.CommandKind(req.Kind), Value: req.Value})
}

type WateringRequest struct {
	Threshold int  `json:"threshold"`
	Enabled   bool `json:"enabled"`
}

var wateringRequestSchema = z.Struct(z.Shape{
	"threshold": z.Int().GTE(0).LTE(100).Required(),
	"enabled":   z.Bool(),
})

// PostWatering queues the threshold and then the auto-watering switch for the
// same device. The mailbox holds one command, so the switch is what the unit
// receives on its next poll.
func (rs *RestfulServer) PostWatering(c *gin.Context) {
	device, ok := rs.device(c)
	if !ok {
		return
	}

	var req WateringRequest
	if errs := wateringRequestSchema.Parse(zhttp.Request(c.Request), &req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs})
		return
	}

	identifier := device.Identifier()
	if err := rs.Plant.Mailbox.SetCommand(identifier, models.CommandSetMoistureThreshold, req.Threshold); err != nil {
		rs.writeError(c, err)
		return
	}
	enabled := 0
	if req.Enabled {
		enabled = 1
	}
	if err := rs.Plant.Mailbox.SetCommand(identifier, models.CommandSetAutoWatering, enabled); err != nil {
		rs.writeError(c, err)
		return
	}

	cmd, _ := rs.Plant.Mailbox.GetCommand(identifier)
	c.JSON(http.StatusAccepted, cmd)
}

func (rs *RestfulServer) PostWater(c *gin.Context) {
	device, ok := rs.device(c)
	if !ok {
		return
	}
	if err := rs.Plant.Mailbox.SetCommand(device.Identifier(), models.CommandTriggerWatering, 1); err != nil {
		rs.writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, models.Command{Kind: models.CommandTriggerWatering, Value: 1})
}

type TelemetryRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Limit int    `json:"limit"`
	Fill  string `json:"fill"`
}

var telemetryRequestSchema = z.Struct(z.Shape{
	"start": z.String(),
	"end":   z.String(),
	"limit": z.Int().GTE(0).LTE(10000),
	"fill":  z.String().OneOf([]string{"", "ffill"}),
})

func (rs *RestfulServer) parseInstant(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := plant.ParseTimestamp(value, rs.Plant.Location)
	if err != nil {
		return time.Time{}, common.Validationf("%s", err)
	}
	return t, nil
}

func (rs *RestfulServer) GetTelemetry(c *gin.Context) {
	device, ok := rs.device(c)
	if !ok {
		return
	}

	var req TelemetryRequest
	if errs := telemetryRequestSchema.Parse(zhttp.Request(c.Request), &req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs})
		return
	}
	if (req.Start == "") != (req.End == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end must be given together"})
		return
	}

	var (
		readings []models.Reading
		err      error
	)
	switch {
	case req.Start != "":
		rng := &models.TimeRange{}
		if rng.Start, err = rs.parseInstant(req.Start); err != nil {
			rs.writeError(c, err)
			return
		}
		if rng.End, err = rs.parseInstant(req.End); err != nil {
			rs.writeError(c, err)
			return
		}
		readings, err = rs.Plant.Telemetry.Query(device.DataSourceID, device.Identifier(), rng)
	case req.Limit > 0:
		readings, err = rs.Plant.Telemetry.Recent(device.DataSourceID, device.Identifier(), req.Limit)
	default:
		readings, err = rs.Plant.Telemetry.Query(device.DataSourceID, device.Identifier(), nil)
	}
	if err != nil {
		rs.writeError(c, err)
		return
	}

	if req.Fill == "ffill" {
		readings = plant.FillForward(readings)
	}
	c.JSON(http.StatusOK, readings)
}

type RegisterRequest struct {
	Mac string `json:"mac"`
}

var registerRequestSchema = z.Struct(z.Shape{
	"mac": z.String().Min(2).Required(),
})

func (rs *RestfulServer) RegisterDevice(c *gin.Context) {
	var req RegisterRequest
	if errs := registerRequestSchema.Parse(zhttp.Request(c.Request), &req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs})
		return
	}

	if !rs.CheckDeviceLimiter(req.Mac) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	device, outcome, err := rs.Plant.Registry.RegisterAuto(req.Mac)
	if err != nil {
		rs.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcome": outcome, "device": device})
}

func (rs *RestfulServer) GetCommand(c *gin.Context) {
	identifier := c.Param("identifier")

	if !rs.CheckDeviceLimiter(identifier) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	cmd, ok := rs.Plant.Mailbox.GetCommand(identifier)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, cmd)
}

func (rs *RestfulServer) AckCommand(c *gin.Context) {
	identifier := c.Param("identifier")

	if !rs.CheckDeviceLimiter(identifier) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	c.JSON(http.StatusOK, gin.H{"acknowledged": rs.Plant.Mailbox.Acknowledge(identifier)})
}

func (rs *RestfulServer) PollReset(c *gin.Context) {
	identifier := c.Param("identifier")

	if !rs.CheckDeviceLimiter(identifier) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	pending, err := rs.Plant.Reset.PollAndClear(identifier)
	if err != nil {
		rs.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset": pending})
}

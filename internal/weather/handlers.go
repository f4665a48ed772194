package weather

import (
	"backend-travelplanner/internal/apperr"
	"backend-travelplanner/internal/logging"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func RegisterRoutes(r fiber.Router, svc *Service, log *zap.Logger) {
	log = logging.OrNop(log)

	r.Post("/get-weather", func(c *fiber.Ctx) error {
		var req Request
		if err := c.BodyParser(&req); err != nil {
			return apperr.ValidationError{Msg: "invalid payload"}
		}
		summary, err := svc.Lookup(c.UserContext(), req.Destination, req.Date)
		if err != nil {
			log.Error("error fetching weather data",
				zap.String("destination", req.Destination),
				zap.String("date", req.Date),
				zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": ServerErrorMessage})
		}
		return c.JSON(summary)
	})
}

package image

import (
	"backend-travelplanner/internal/logging"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func RegisterRoutes(r fiber.Router, svc *Service, log *zap.Logger) {
	log = logging.OrNop(log)

	r.Get("/get-image-url", func(c *fiber.Ctx) error {
		q := c.Query("q")
		imageURL, err := svc.Lookup(c.UserContext(), q)
		if err != nil {
			log.Error("error fetching image url", zap.String("q", q), zap.Error(err))
			return err
		}
		return c.JSON(fiber.Map{"imageURL": imageURL})
	})
}

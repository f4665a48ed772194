package trip

import (
	"strconv"

	"backend-travelplanner/internal/apperr"
	"backend-travelplanner/internal/logging"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func RegisterRoutes(r fiber.Router, svc *Service, log *zap.Logger) {
	log = logging.OrNop(log)

	r.Post("/save-trip", func(c *fiber.Ctx) error {
		doc, err := ParseDoc(c.Body())
		if err != nil {
			return apperr.ValidationError{Msg: "invalid payload"}
		}
		id, err := svc.Save(c.UserContext(), doc)
		if err != nil {
			log.Error("error saving trip", zap.Error(err))
			return err
		}
		return c.JSON(SaveResponse{TripCardID: id})
	})

	r.Delete("/delete-trip/:id", func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			// no trip can carry this id, so there is nothing to delete
			log.Debug("delete of non-numeric trip id", zap.String("id", c.Params("id")))
			return c.Status(fiber.StatusOK).Send(nil)
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			log.Error("error deleting trip", zap.Int64("id", id), zap.Error(err))
			return err
		}
		return c.Status(fiber.StatusOK).Send(nil)
	})

	r.Get("/get-trips", func(c *fiber.Ctx) error {
		trips, err := svc.List(c.UserContext())
		if err != nil {
			log.Error("error listing trips", zap.Error(err))
			return err
		}
		return c.JSON(trips)
	})
}

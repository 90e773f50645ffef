package middleware

import (
	"fmt"

	"videotube/internal/observability"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// resourceParams maps route parameters to the span attribute that names the
// resource they address.
var resourceParams = map[string]string{
	"videoId":      "videotube.video.id",
	"commentId":    "videotube.comment.id",
	"tweetId":      "videotube.tweet.id",
	"channelId":    "videotube.channel.id",
	"subscriberId": "videotube.subscriber.id",
	"userId":       "videotube.user.id",
	"targetId":     "videotube.target.id",
}

// TracingMiddleware starts a server span per request. Once the handler has
// run, the span is renamed to the matched route template and tagged with the
// resource ids and toggle target kind found in the route parameters.
func TracingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), propagation.HeaderCarrier(c.GetReqHeaders()))

		ctx, span := observability.Tracer.Start(ctx, c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Method()),
				attribute.String("http.target", c.OriginalURL()),
				attribute.String("http.client_ip", c.IP()),
			),
		)
		defer span.End()

		traceID := span.SpanContext().TraceID().String()
		c.Locals("traceID", traceID)
		c.Locals("spanID", span.SpanContext().SpanID().String())
		if requestID := c.Locals("requestid"); requestID != nil {
			span.SetAttributes(attribute.String("request.id", fmt.Sprintf("%v", requestID)))
		}

		c.Set("X-Trace-ID", traceID)
		c.SetUserContext(ctx)

		err := c.Next()

		// Route and params now reflect the handler that served the request.
		if route := c.Route(); route != nil && route.Path != "" && route.Path != "/" {
			span.SetName(c.Method() + " " + route.Path)
			span.SetAttributes(attribute.String("http.route", route.Path))
		}
		span.SetAttributes(routeAttributes(c)...)
		span.SetAttributes(attribute.Int("http.status_code", c.Response().StatusCode()))

		if userID, ok := c.Locals("userID").(uint); ok && userID != 0 {
			span.SetAttributes(attribute.Int64("videotube.actor.id", int64(userID)))
		}
		if err != nil {
			span.RecordError(err)
		}
		return err
	}
}

func routeAttributes(c *fiber.Ctx) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if kind := c.Params("kind"); kind != "" {
		attrs = append(attrs, attribute.String("videotube.target.kind", kind))
	}
	for param, key := range resourceParams {
		if v := c.Params(param); v != "" {
			attrs = append(attrs, attribute.String(key, v))
		}
	}
	return attrs
}

// Package telemetry sets up OpenTelemetry tracing, metrics and logs for
// jsondistill.
//
// Spans and metrics are exported over OTLP (gRPC or HTTP/protobuf) to a
// collector. Log records are exported over OTLP/gRPC when the logging
// configuration enables the OTEL output.
//
// # Usage
//
//	tel, err := telemetry.New(ctx, cfg.Telemetry)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	tracer := tel.Tracer("github.com/fyrsmithlabs/jsondistill/internal/distill")
//
// # Configuration
//
//	telemetry:
//	  enabled: true
//	  endpoint: "localhost:4317"
//	  protocol: grpc          # or http/protobuf
//	  service_name: "jsondistill"
//	  sampling:
//	    rate: 0.25
//	  metrics:
//	    enabled: true
//	    export_interval: "15s"
//
// # Error Handling
//
// Exporter setup failures never stop the process. The instance is marked
// degraded, Health reports the reason, and the global no-op providers stay
// in place.
//
// # Testing
//
// NewTestTelemetry records spans and metrics in memory:
//
//	tt := telemetry.NewTestTelemetry()
//	svc, _ := distill.NewService(distill.ServiceConfig{Telemetry: tt.Telemetry})
//	...
//	tt.AssertSpanExists(t, "distill.run")
package telemetry

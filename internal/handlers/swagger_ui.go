package handlers

import (
	"fmt"
	"net/http"
)

// swaggerUIVersion pins the swagger-ui-dist build loaded from unpkg.
// Bump deliberately; major upgrades have changed the init API before.
const swaggerUIVersion = "5.10.0"

const swaggerPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>Weather Anomaly Detection API %s - Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@%s/swagger-ui.css">
    <style>
        body { margin: 0; background: #fafafa; }
        .topbar { display: none; }
    </style>
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@%s/swagger-ui-bundle.js"></script>
    <script>
        window.onload = function() {
            window.ui = SwaggerUIBundle({
                url: "/api/docs/openapi.json",
                dom_id: "#swagger-ui",
                deepLinking: true,
                tryItOutEnabled: true,
                presets: [SwaggerUIBundle.presets.apis],
                layout: "BaseLayout"
            });
        };
    </script>
</body>
</html>`

// SwaggerUI serves the interactive documentation page backed by the
// OpenAPI document at /api/docs/openapi.json.
func SwaggerUI(w http.ResponseWriter, r *http.Request) {
	page := fmt.Sprintf(swaggerPageTemplate, APIVersion, swaggerUIVersion, swaggerUIVersion)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(page))
}

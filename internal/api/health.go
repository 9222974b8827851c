// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"net/http"

	"github.com/taibuivan/eduadmin/internal/platform/respond"
)

// Liveness handles GET /health. It always answers 200 while the process is up.
func Liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok"})
}

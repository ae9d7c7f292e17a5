// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package chartgen

import (
	"github.com/teradata-labs/easel/pkg/catalog"
	"github.com/teradata-labs/easel/pkg/types"
)

// Pinned CDN builds. Fragments embed these URLs verbatim; bumping a version
// here changes every emitted fragment.
const (
	chartJSURL    = "https://cdn.jsdelivr.net/npm/chart.js@4.4.1/dist/chart.umd.min.js"
	datalabelsURL = "https://cdn.jsdelivr.net/npm/chartjs-plugin-datalabels@2.2.0/dist/chartjs-plugin-datalabels.min.js"
	matrixURL     = "https://cdn.jsdelivr.net/npm/chartjs-chart-matrix@2.0.1/dist/chartjs-chart-matrix.min.js"
	treemapURL    = "https://cdn.jsdelivr.net/npm/chartjs-chart-treemap@2.3.1/dist/chartjs-chart-treemap.min.js"
	sankeyURL     = "https://cdn.jsdelivr.net/npm/chartjs-chart-sankey@0.12.1/dist/chartjs-chart-sankey.min.js"
	apexURL       = "https://cdn.jsdelivr.net/npm/apexcharts@3.45.2/dist/apexcharts.min.js"
)

// scriptsFor lists the script URLs a chart type needs, in load order. Every
// Chart.js type carries the datalabels plugin so the enforcement defaults
// have a renderer; plugin chart types append their own controller.
func scriptsFor(ct types.ChartType) []string {
	if catalog.LibraryFor(ct) == types.LibraryApexCharts {
		return []string{apexURL}
	}

	scripts := []string{chartJSURL, datalabelsURL}
	switch ct {
	case types.ChartTypeHeatmap:
		scripts = append(scripts, matrixURL)
	case types.ChartTypeTreemap:
		scripts = append(scripts, treemapURL)
	case types.ChartTypeSankey:
		scripts = append(scripts, sankeyURL)
	}
	return scripts
}

// loaderJS is the shared script loader embedded once per fragment. It loads
// each dependency at most once per page, waiting on an in-flight tag instead
// of injecting a duplicate, so several fragments on one slide deck share a
// single Chart.js instance.
const loaderJS = `function __easelEnsure(src, cb) {
  var tag = document.querySelector('script[data-easel-src="' + src + '"]');
  if (tag) {
    if (tag.getAttribute('data-easel-loaded')) { cb(); }
    else { tag.addEventListener('load', cb); }
    return;
  }
  tag = document.createElement('script');
  tag.src = src;
  tag.setAttribute('data-easel-src', src);
  tag.addEventListener('load', function() {
    tag.setAttribute('data-easel-loaded', '1');
    cb();
  });
  document.head.appendChild(tag);
}
function __easelEnsureAll(srcs, cb) {
  var next = function(i) {
    if (i >= srcs.length) { cb(); return; }
    __easelEnsure(srcs[i], function() { next(i + 1); });
  };
  next(0);
}`

// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package editor emits the in-fragment data editor: an edit button pinned to
// the chart container, a hidden modal with an editable table, and the
// JavaScript that round-trips edited rows through the persistence endpoints.
// The table layout follows the chart family; routing a family to the wrong
// table is a correctness bug, not a cosmetic one.
package editor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/teradata-labs/easel/pkg/shaper"
	"github.com/teradata-labs/easel/pkg/types"
)

// Params configures one editor instance. EndpointBase is the URL prefix the
// save/load calls are POSTed to, e.g. "/api/v1/analytics".
type Params struct {
	ChartID        string
	PresentationID string
	ChartType      types.ChartType
	Family         shaper.Family
	EndpointBase   string
}

// Supports reports whether the family has an editor table. Labeled values
// and point clouds are editable; grids, five-number summaries, OHLC bars and
// flows have no row-oriented editing surface.
func Supports(f shaper.Family) bool {
	return f == shaper.FamilySingle || f == shaper.FamilyPoints
}

// Markup returns the edit button and the initially hidden modal. Everything
// is keyed off the chart id so several editors coexist on one page.
func Markup(chartID string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf(`<button id="%s_edit" type="button" style="position: absolute; top: 12px; right: 12px; z-index: 10; padding: 6px 14px; font-family: 'Inter', sans-serif; font-size: 13px; font-weight: 600; color: #374151; background: #ffffff; border: 1px solid #d1d5db; border-radius: 6px; cursor: pointer;">Edit Data</button>`, chartID))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf(`<div id="%s_modal" style="display: none; position: absolute; top: 0; left: 0; right: 0; bottom: 0; background: rgba(17, 24, 39, 0.55); z-index: 20; align-items: center; justify-content: center;">`, chartID))
	b.WriteString(`<div style="background: #ffffff; border-radius: 8px; padding: 24px; width: 480px; max-height: 80%; overflow-y: auto; font-family: 'Inter', sans-serif;">`)
	b.WriteString(`<h4 style="margin: 0 0 16px 0; font-size: 16px; font-weight: 600; color: #1f2937;">Edit Chart Data</h4>`)
	b.WriteString(fmt.Sprintf(`<table id="%s_table" style="width: 100%%; border-collapse: collapse; font-size: 13px; color: #374151;"></table>`, chartID))
	b.WriteString(fmt.Sprintf(`<button id="%s_addrow" type="button" style="margin-top: 12px; padding: 4px 12px; font-size: 13px; border: 1px solid #d1d5db; border-radius: 4px; background: #f9fafb; cursor: pointer;">Add Row</button>`, chartID))
	b.WriteString(`<div style="margin-top: 20px; text-align: right;">`)
	b.WriteString(fmt.Sprintf(`<button id="%s_cancel" type="button" style="padding: 6px 16px; margin-right: 8px; font-size: 13px; border: 1px solid #d1d5db; border-radius: 6px; background: #ffffff; cursor: pointer;">Cancel</button>`, chartID))
	b.WriteString(fmt.Sprintf(`<button id="%s_save" type="button" style="padding: 6px 16px; font-size: 13px; font-weight: 600; border: none; border-radius: 6px; background: #2563eb; color: #ffffff; cursor: pointer;">Save</button>`, chartID))
	b.WriteString(`</div></div></div>`)

	return b.String()
}

// Script returns the JavaScript definitions the fragment initializer calls:
//
//	__easelEditorLoad(cb)        fetch saved rows, cb(rowsOrNull)
//	__easelApplyRows(cfg, rows)  overwrite the config's data in place
//	__easelEditorWire(chart)     attach modal open/edit/save behavior
//
// The statements are meant to run inside the fragment's IIFE so nothing
// leaks to global scope.
func Script(p Params) string {
	idJS := mustJSON(p.ChartID)
	presJS := mustJSON(p.PresentationID)
	baseJS := mustJSON(strings.TrimRight(p.EndpointBase, "/"))
	familyJS := mustJSON(string(p.Family))
	bubble := p.ChartType == types.ChartTypeBubble

	var b strings.Builder
	fmt.Fprintf(&b, "var __edChartId = %s;\n", idJS)
	fmt.Fprintf(&b, "var __edPresId = %s;\n", presJS)
	fmt.Fprintf(&b, "var __edBase = %s;\n", baseJS)
	fmt.Fprintf(&b, "var __edFamily = %s;\n", familyJS)
	fmt.Fprintf(&b, "var __edBubble = %t;\n", bubble)

	b.WriteString(loadScript)
	if p.Family == shaper.FamilyPoints {
		b.WriteString(pointsApplyScript)
		b.WriteString(pointsTableScript)
	} else {
		b.WriteString(primitiveApplyScript)
		b.WriteString(primitiveTableScript)
	}
	b.WriteString(wireScript)
	return b.String()
}

func mustJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return `""`
	}
	return string(data)
}

// loadScript fetches previously saved rows for this chart. Errors and
// missing rows both yield null so the fragment renders the request data.
const loadScript = `function __easelEditorLoad(cb) {
  if (!__edPresId) { cb(null); return; }
  fetch(__edBase + '/chart-data/' + encodeURIComponent(__edPresId))
    .then(function(res) { return res.ok ? res.json() : null; })
    .then(function(body) {
      if (!body || !body.charts) { cb(null); return; }
      for (var i = 0; i < body.charts.length; i++) {
        var rec = body.charts[i];
        if (rec.chart_id === __edChartId && rec.payload && rec.payload.rows && rec.payload.rows.length) {
          cb(rec.payload.rows);
          return;
        }
      }
      cb(null);
    })
    .catch(function() { cb(null); });
}
`

// primitiveApplyScript rewrites a labels + values config from edited rows.
const primitiveApplyScript = `function __easelApplyRows(cfg, rows) {
  var labels = [];
  var values = [];
  for (var i = 0; i < rows.length; i++) {
    labels.push(String(rows[i].label));
    values.push(Number(rows[i].value));
  }
  cfg.data.labels = labels;
  for (var d = 0; d < cfg.data.datasets.length; d++) {
    cfg.data.datasets[d].data = values;
  }
}
function __easelRowsFrom(chart) {
  var rows = [];
  var labels = chart.data.labels || [];
  var values = chart.data.datasets[0].data || [];
  for (var i = 0; i < values.length; i++) {
    rows.push({ label: String(labels[i] !== undefined ? labels[i] : i), value: Number(values[i]) });
  }
  return rows;
}
`

// pointsApplyScript rewrites a point-cloud config from edited rows. X is the
// row ordinal so edited labels keep their position on the axis.
const pointsApplyScript = `function __easelApplyRows(cfg, rows) {
  var data = [];
  for (var i = 0; i < rows.length; i++) {
    var p = { x: i, y: Number(rows[i].y), label: String(rows[i].label) };
    if (__edBubble) { p.r = Number(rows[i].r); }
    data.push(p);
  }
  cfg.data.datasets[0].data = data;
}
function __easelRowsFrom(chart) {
  var rows = [];
  var data = chart.data.datasets[0].data || [];
  for (var i = 0; i < data.length; i++) {
    var row = { label: String(data[i].label || ''), y: Number(data[i].y) };
    if (__edBubble) { row.r = Number(data[i].r); }
    rows.push(row);
  }
  return rows;
}
`

const primitiveTableScript = `function __easelRenderTable(table, rows) {
  var html = '<tr><th style="text-align:left; padding:4px 8px; border-bottom:1px solid #e5e7eb;">Label</th><th style="text-align:left; padding:4px 8px; border-bottom:1px solid #e5e7eb;">Value</th><th></th></tr>';
  for (var i = 0; i < rows.length; i++) {
    html += '<tr>' +
      '<td style="padding:4px 8px;"><input data-field="label" data-row="' + i + '" value="' + __easelAttr(rows[i].label) + '" style="width:100%; box-sizing:border-box;"></td>' +
      '<td style="padding:4px 8px;"><input data-field="value" data-row="' + i + '" type="number" step="any" value="' + rows[i].value + '" style="width:100%; box-sizing:border-box;"></td>' +
      '<td style="padding:4px 8px;"><button type="button" data-del="' + i + '" style="border:none; background:none; color:#dc2626; cursor:pointer;">&#10005;</button></td>' +
      '</tr>';
  }
  table.innerHTML = html;
}
function __easelReadTable(table) {
  var rows = [];
  var inputs = table.querySelectorAll('input[data-row]');
  for (var i = 0; i < inputs.length; i++) {
    var idx = Number(inputs[i].getAttribute('data-row'));
    rows[idx] = rows[idx] || {};
    rows[idx][inputs[i].getAttribute('data-field')] = inputs[i].getAttribute('data-field') === 'label' ? inputs[i].value : Number(inputs[i].value);
  }
  return rows;
}
function __easelEmptyRow() { return { label: '', value: 0 }; }
`

const pointsTableScript = `function __easelRenderTable(table, rows) {
  var head = '<tr><th style="text-align:left; padding:4px 8px; border-bottom:1px solid #e5e7eb;">X</th><th style="text-align:left; padding:4px 8px; border-bottom:1px solid #e5e7eb;">Y</th>';
  if (__edBubble) { head += '<th style="text-align:left; padding:4px 8px; border-bottom:1px solid #e5e7eb;">Radius</th>'; }
  var html = head + '<th></th></tr>';
  for (var i = 0; i < rows.length; i++) {
    html += '<tr>' +
      '<td style="padding:4px 8px;"><input data-field="label" data-row="' + i + '" value="' + __easelAttr(rows[i].label) + '" style="width:100%; box-sizing:border-box;"></td>' +
      '<td style="padding:4px 8px;"><input data-field="y" data-row="' + i + '" type="number" step="any" value="' + rows[i].y + '" style="width:100%; box-sizing:border-box;"></td>';
    if (__edBubble) {
      html += '<td style="padding:4px 8px;"><input data-field="r" data-row="' + i + '" type="number" step="any" value="' + rows[i].r + '" style="width:100%; box-sizing:border-box;"></td>';
    }
    html += '<td style="padding:4px 8px;"><button type="button" data-del="' + i + '" style="border:none; background:none; color:#dc2626; cursor:pointer;">&#10005;</button></td></tr>';
  }
  table.innerHTML = html;
}
function __easelReadTable(table) {
  var rows = [];
  var inputs = table.querySelectorAll('input[data-row]');
  for (var i = 0; i < inputs.length; i++) {
    var idx = Number(inputs[i].getAttribute('data-row'));
    rows[idx] = rows[idx] || {};
    var field = inputs[i].getAttribute('data-field');
    rows[idx][field] = field === 'label' ? inputs[i].value : Number(inputs[i].value);
  }
  return rows;
}
function __easelEmptyRow() { var row = { label: '', y: 0 }; if (__edBubble) { row.r = 8; } return row; }
`

// wireScript attaches the modal behavior and persists edits. Save rebuilds
// the chart data in place, repaints, then POSTs the rows keyed by chart and
// presentation so a reload restores the edit.
const wireScript = `function __easelAttr(s) {
  return String(s).replace(/&/g, '&amp;').replace(/"/g, '&quot;').replace(/</g, '&lt;').replace(/>/g, '&gt;');
}
function __easelEditorWire(chart) {
  var editBtn = document.getElementById(__edChartId + '_edit');
  var modal = document.getElementById(__edChartId + '_modal');
  var table = document.getElementById(__edChartId + '_table');
  var addBtn = document.getElementById(__edChartId + '_addrow');
  var cancelBtn = document.getElementById(__edChartId + '_cancel');
  var saveBtn = document.getElementById(__edChartId + '_save');
  if (!editBtn || !modal || !table) { return; }

  editBtn.addEventListener('click', function() {
    __easelRenderTable(table, __easelRowsFrom(chart));
    modal.style.display = 'flex';
  });
  cancelBtn.addEventListener('click', function() { modal.style.display = 'none'; });
  addBtn.addEventListener('click', function() {
    var rows = __easelReadTable(table);
    rows.push(__easelEmptyRow());
    __easelRenderTable(table, rows);
  });
  table.addEventListener('click', function(ev) {
    var del = ev.target.getAttribute && ev.target.getAttribute('data-del');
    if (del === null || del === undefined) { return; }
    var rows = __easelReadTable(table);
    rows.splice(Number(del), 1);
    __easelRenderTable(table, rows);
  });
  saveBtn.addEventListener('click', function() {
    var rows = __easelReadTable(table);
    __easelApplyRows(chart.config, rows);
    chart.update();
    modal.style.display = 'none';
    fetch(__edBase + '/chart-data', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify({
        chart_id: __edChartId,
        presentation_id: __edPresId,
        payload: { family: __edFamily, rows: rows }
      })
    }).catch(function() {});
  });
}
`

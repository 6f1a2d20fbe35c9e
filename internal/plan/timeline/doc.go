// Package timeline computes the column layout and proportional bar positions
// of the Gantt view: a visible day window at day, week or month granularity,
// shifted in fixed steps and zoomed around its center. All output is in
// percentages of the window so the rendering layer can scale it to any width.
package timeline

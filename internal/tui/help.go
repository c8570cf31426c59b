package tui

// helpText is the overlay shown by the h key.
const helpText = `Relative Rotation Graph

Each symbol is plotted by its relative strength against the benchmark
(x axis) and the momentum of that strength (y axis). Both are centered
at 100. The trail shows the last few observations; the solid dot is
the most recent one.

Quadrants
  Leading     strong and strengthening
  Weakening   strong but fading
  Lagging     weak and weakening
  Improving   weak but recovering

Keys
  click       highlight / unhighlight a symbol (click its head)
  left/right  step date labels along highlighted trails
  a           toggle all symbol labels
  t           toggle all trails
  delete      clear highlights and date labels
  h           show / hide this help
  q           quit`

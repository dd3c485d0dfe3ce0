package render

// visPage takes the JSON encoded title and the replay items. Pictures are added first
// and greyed out until a match touches them.
var visPage = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
      body { margin: 0; font-family: monospace; }
      #status { position: fixed; top: 0; left: 0; z-index: 1; padding: 4px 8px; background: #ffffffcc; }
      #graph { width: 100vw; height: 100vh; }
    </style>
    <script type="text/javascript"
      src="https://unpkg.com/vis-network/standalone/umd/vis-network.min.js"></script>
  </head>
  <body>
    <div id="status"></div>
    <div id="graph"></div>
    <script type="text/javascript">
const title = %s;
document.title = title;

const replay = [%s
];

const nodes = new vis.DataSet();
const edges = new vis.DataSet();
const network = new vis.Network(document.getElementById("graph"), { nodes: nodes, edges: edges }, {
  nodes: {
    size: 32,
    shapeProperties: { useBorderWithImage: true },
  },
  edges: { color: { color: "#238443" } },
  physics: {
    solver: "barnesHut",
    barnesHut: { gravitationalConstant: -10000 },
  },
});

const status = document.getElementById("status");
const matched = new Set();

function showStatus(done) {
  const text = title + ": " + nodes.length + " pictures, " + edges.length + " matches, " + matched.size + " matched";
  status.textContent = done ? text : text + " ...";
}

function step(i) {
  if (i >= replay.length) {
    showStatus(true);
    network.fit();
    return;
  }
  const item = replay[i];
  if (item.type === "node") {
    nodes.add(Object.assign({ opacity: 0.35 }, item.data));
  } else if (item.type === "edge") {
    edges.add(item.data);
    [item.data.from, item.data.to].forEach(function (id) {
      if (!matched.has(id)) {
        matched.add(id);
        nodes.update({ id: id, opacity: 1 });
      }
    });
  }
  showStatus(false);
  setTimeout(function () { step(i + 1); }, 10);
}

step(0);
    </script>
  </body>
</html>`
